package yamldoc

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean input untouched",
			in:   "api:\n  tag: 1.0\n",
			want: "api:\n  tag: 1.0\n",
		},
		{
			name: "strips BOM",
			in:   "\ufeffapi: 1\n",
			want: "api: 1\n",
		},
		{
			name: "CRLF to LF",
			in:   "api:\r\n  tag: 1.0\r\n",
			want: "api:\n  tag: 1.0\n",
		},
		{
			name: "leading tabs become two spaces each",
			in:   "api:\n\ttag: 1.0\n\t\timage: x\n",
			want: "api:\n  tag: 1.0\n    image: x\n",
		},
		{
			name: "tab inside content preserved",
			in:   "api: \"a\tb\"\n",
			want: "api: \"a\tb\"\n",
		},
		{
			name: "all three faults together",
			in:   "\ufeffapi:\r\n\ttag: 1.0\r\n",
			want: "api:\n  tag: 1.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
