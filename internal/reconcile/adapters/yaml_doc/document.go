// Package yamldoc implements the values document tree on top of yaml.v3 nodes.
// Edits are applied as byte-level patches against the original text, anchored
// on each scalar node's source position, so comments, key ordering, and
// formatting survive everywhere a tag was not rewritten. Structural edits
// (new keys, collapsed subtrees) force a full re-encode instead.
package yamldoc

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
)

// Document is one parsed values file. It is owned by a single reconciliation
// call and must not be shared across calls.
type Document struct {
	src         []byte
	doc         *yaml.Node
	root        *yaml.Node
	lineOffsets []int

	patches map[int]patch          // keyed by start offset; a re-write of the same token replaces its patch
	spans   map[*yaml.Node][2]int  // original token range per patched scalar
	dirty   bool                   // structural change happened; Serialize re-encodes
}

type patch struct {
	start, end int
	data       []byte
}

var yamlErrLine = regexp.MustCompile(`(?i)yaml: line (\d+): (.*)`)

// Parse sanitizes and parses raw text into a Document. Structural faults
// surface as *domain.ParseError with the line the parser reported. Duplicate
// mapping keys are not a fault; lookups resolve them last-write-wins.
func Parse(rawText string) (*Document, error) {
	src := []byte(Sanitize(rawText))

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, toParseError(err)
	}

	d := &Document{
		src:         src,
		doc:         &doc,
		lineOffsets: buildLineOffsets(src),
		patches:     map[int]patch{},
		spans:       map[*yaml.Node][2]int{},
	}
	if len(doc.Content) > 0 {
		d.root = doc.Content[0]
	}
	return d, nil
}

func toParseError(err error) *domain.ParseError {
	msg := err.Error()
	if m := yamlErrLine.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return domain.NewParseError(line, m[2])
	}
	return domain.NewParseError(0, strings.TrimPrefix(msg, "yaml: "))
}

// Has reports whether the path resolves to a node. Missing intermediate nodes
// make it false, never an error.
func (d *Document) Has(path domain.Path) bool {
	return d.resolve(path) != nil
}

// Get returns the scalar value at the path. ok is false when the path is
// missing or addresses a non-scalar node.
func (d *Document) Get(path domain.Path) (string, bool) {
	n := d.resolve(path)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Set writes a scalar value at the path. An existing scalar is rewritten in
// place preserving its quoting style; a missing tail is created through
// mapping nodes. Creating sequence elements is not supported.
func (d *Document) Set(path domain.Path, value string) error {
	if len(path) == 0 {
		return errors.New("empty path")
	}

	n := d.resolve(path)
	if n != nil {
		if n.Kind == yaml.ScalarNode {
			d.patchScalar(n, value)
			return nil
		}
		// Replacing a mapping or sequence with a scalar collapses the
		// subtree; byte surgery cannot express that.
		n.Kind = yaml.ScalarNode
		n.Tag = "!!str"
		n.Style = 0
		n.Content = nil
		n.Value = value
		d.dirty = true
		return nil
	}

	return d.create(path, value)
}

// Serialize renders the document back to text. With no edits the original
// bytes are returned untouched; scalar rewrites are spliced in; structural
// edits fall back to a full yaml.v3 encode at two-space indent.
func (d *Document) Serialize() (string, error) {
	if d.dirty {
		if d.doc == nil || len(d.doc.Content) == 0 {
			return "", nil
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.doc.Content[0]); err != nil {
			enc.Close()
			return "", fmt.Errorf("encoding values document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding values document: %w", err)
		}
		return buf.String(), nil
	}

	if len(d.patches) == 0 {
		return string(d.src), nil
	}

	ordered := make([]patch, 0, len(d.patches))
	for _, p := range d.patches {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start < ordered[j].start })

	var out bytes.Buffer
	cursor := 0
	for _, p := range ordered {
		if p.start < cursor || p.end > len(d.src) {
			return "", fmt.Errorf("conflicting edits at byte %d", p.start)
		}
		out.Write(d.src[cursor:p.start])
		out.Write(p.data)
		cursor = p.end
	}
	out.Write(d.src[cursor:])
	return out.String(), nil
}

// resolve walks the tree applying the segment-typing rule: index segments
// require a sequence, key segments a mapping. Aliases are followed. For
// duplicate mapping keys the last occurrence wins, matching standard YAML
// merge semantics.
func (d *Document) resolve(path domain.Path) *yaml.Node {
	n := deref(d.root)
	for _, seg := range path {
		if n == nil {
			return nil
		}
		if seg.IsIndex {
			if n.Kind != yaml.SequenceNode || seg.Index >= len(n.Content) {
				return nil
			}
			n = deref(n.Content[seg.Index])
			continue
		}
		if n.Kind != yaml.MappingNode {
			return nil
		}
		n = deref(lookupKey(n, seg.Key))
	}
	return n
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func lookupKey(m *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			found = m.Content[i+1]
		}
	}
	return found
}

// patchScalar records a byte patch replacing the scalar's source token,
// rendering the new value in the same style as the old one. When the token
// cannot be located (block scalars, synthesized nodes) the edit is applied to
// the node and Serialize falls back to a re-encode.
func (d *Document) patchScalar(n *yaml.Node, value string) {
	if n.Tag == "!!null" {
		// A key with no value has no token to splice into.
		n.Value = value
		n.Tag = "!!str"
		n.Style = 0
		d.dirty = true
		return
	}

	span, seen := d.spans[n]
	if !seen {
		start := d.offsetFor(n.Line, n.Column)
		end, ok := d.tokenEnd(n, start)
		if !ok {
			n.Value = value
			n.Style = 0
			d.dirty = true
			return
		}
		span = [2]int{start, end}
		d.spans[n] = span
	}

	token := renderToken(n.Style, value)
	// An empty original token means the key had no value on its line; keep a
	// separating space after the colon.
	if span[0] == span[1] && span[0] > 0 && d.src[span[0]-1] != ' ' {
		token = append([]byte(" "), token...)
	}

	n.Value = value
	if bytes.Equal(d.src[span[0]:span[1]], token) {
		delete(d.patches, span[0])
		return
	}
	d.patches[span[0]] = patch{start: span[0], end: span[1], data: token}
}

// tokenEnd locates the end of the scalar token starting at pos. Plain tokens
// must match the node value byte-for-byte on one line; quoted tokens are
// scanned to their closing quote. Anything else is unsafe for surgery.
func (d *Document) tokenEnd(n *yaml.Node, pos int) (int, bool) {
	if pos < 0 || pos > len(d.src) {
		return 0, false
	}
	switch n.Style {
	case yaml.SingleQuotedStyle:
		return scanQuoted(d.src, pos, '\'')
	case yaml.DoubleQuotedStyle:
		return scanQuoted(d.src, pos, '"')
	case 0, yaml.TaggedStyle:
		end := pos + len(n.Value)
		if end > len(d.src) || string(d.src[pos:end]) != n.Value {
			return 0, false
		}
		if bytes.ContainsRune(d.src[pos:end], '\n') {
			return 0, false
		}
		return end, true
	default:
		// Literal and folded block scalars span lines.
		return 0, false
	}
}

func scanQuoted(b []byte, pos int, quote byte) (int, bool) {
	if pos >= len(b) || b[pos] != quote {
		return 0, false
	}
	i := pos + 1
	for i < len(b) && b[i] != '\n' {
		switch {
		case quote == '\'' && b[i] == '\'':
			if i+1 < len(b) && b[i+1] == '\'' {
				i += 2 // escaped single quote
				continue
			}
			return i + 1, true
		case quote == '"' && b[i] == '\\':
			i += 2
			continue
		case quote == '"' && b[i] == '"':
			return i + 1, true
		default:
			i++
		}
	}
	return 0, false
}

// renderToken renders the replacement scalar in the style of the token it
// replaces: plain stays plain unless the new value demands quoting.
func renderToken(style yaml.Style, value string) []byte {
	switch style {
	case yaml.SingleQuotedStyle:
		return []byte("'" + strings.ReplaceAll(value, "'", "''") + "'")
	case yaml.DoubleQuotedStyle:
		return []byte(strconv.Quote(value))
	default:
		if plainSafe(value) {
			return []byte(value)
		}
		return []byte("'" + strings.ReplaceAll(value, "'", "''") + "'")
	}
}

// plainSafe reports whether a value can be written as a plain scalar without
// changing meaning. Image tags and repositories are the expected inputs, so
// the whitelist is deliberately narrow.
func plainSafe(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("._-/+:@", r):
		default:
			return false
		}
	}
	return true
}

// create materializes the missing tail of a path through mapping nodes and
// sets the final scalar. The document needs a re-encode afterwards.
func (d *Document) create(path domain.Path, value string) error {
	if d.root == nil {
		d.root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if d.doc == nil || d.doc.Kind != yaml.DocumentNode {
			d.doc = &yaml.Node{Kind: yaml.DocumentNode}
		}
		d.doc.Content = []*yaml.Node{d.root}
	}

	n := deref(d.root)
	for i, seg := range path {
		last := i == len(path)-1
		if seg.IsIndex {
			if n.Kind != yaml.SequenceNode || seg.Index >= len(n.Content) {
				return fmt.Errorf("cannot create sequence element %d at %q", seg.Index, domain.Path(path[:i+1]).String())
			}
			n = deref(n.Content[seg.Index])
			continue
		}
		if n.Kind != yaml.MappingNode {
			return fmt.Errorf("path %q blocked by non-mapping node", domain.Path(path[:i+1]).String())
		}
		child := lookupKey(n, seg.Key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: seg.Key},
				child,
			)
			d.dirty = true
		}
		n = deref(child)
	}

	if n.Kind == yaml.ScalarNode && n.Value != value {
		n.Value = value
		d.dirty = true
	}
	return nil
}

func buildLineOffsets(b []byte) []int {
	offsets := []int{0}
	for i, c := range b {
		if c == '\n' && i+1 < len(b) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// offsetFor converts yaml.v3's 1-based line/column into a byte offset.
// Columns count characters, not bytes, so the line is walked rune by rune to
// stay anchored when earlier text on the line is multibyte.
func (d *Document) offsetFor(line, col int) int {
	if line <= 0 || col <= 0 || line > len(d.lineOffsets) {
		return -1
	}
	off := d.lineOffsets[line-1]
	for i := 1; i < col; i++ {
		if off >= len(d.src) || d.src[off] == '\n' {
			return -1
		}
		_, size := utf8.DecodeRune(d.src[off:])
		off += size
	}
	return off
}
