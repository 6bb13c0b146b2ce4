// Package domain holds the reconciliation model: dotted paths into a values
// document, the change ledger produced by a reconciliation, and the scalar
// normalization rules shared by the resolver and the reconciler.
package domain

import "strings"

// Segment is one element of a dotted path. A segment whose raw text is all
// decimal digits addresses a sequence index; everything else is a mapping key.
// Classification is purely syntactic so the same path works against any
// document shape without a schema.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// ClassifySegment applies the digit rule to a single raw segment.
func ClassifySegment(raw string) Segment {
	if raw == "" {
		return Segment{Key: raw}
	}
	idx := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return Segment{Key: raw}
		}
		idx = idx*10 + int(r-'0')
	}
	return Segment{Key: raw, Index: idx, IsIndex: true}
}

// Path is an ordered sequence of segments addressing one node in a document.
type Path []Segment

// ParsePath splits a dotted key (e.g. "services.2.api") into classified segments.
func ParsePath(key string) Path {
	parts := strings.Split(key, ".")
	p := make(Path, 0, len(parts))
	for _, raw := range parts {
		p = append(p, ClassifySegment(raw))
	}
	return p
}

// Child returns a new path with the given mapping keys appended. The receiver
// is never aliased so candidate paths built from the same base stay independent.
func (p Path) Child(keys ...string) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	for _, k := range keys {
		out = append(out, Segment{Key: k})
	}
	return out
}

// String renders the path back to dotted form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Key
	}
	return strings.Join(parts, ".")
}
