package yamldoc

import "strings"

// Sanitize prepares raw values text for structural parsing. It strips a single
// leading byte-order mark, converts CRLF line endings to LF, and replaces each
// leading run of tab characters with two spaces per tab. Hand-edited operator
// files commonly arrive with all three faults and none of them should be fatal.
//
// Only tabs forming a line's leading run are touched; a tab appearing after
// the first non-tab character is content, not indentation.
func Sanitize(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	if !strings.Contains(raw, "\t") {
		return raw
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}
		if n > 0 {
			lines[i] = strings.Repeat("  ", n) + line[n:]
		}
	}
	return strings.Join(lines, "\n")
}
