package domain

import (
	"encoding/json"
	"testing"
)

func TestTagTargetUnmarshalCoercesScalars(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TagTarget
		wantErr bool
	}{
		{
			name: "string tag",
			in:   `{"repository": "registry.example.com/api", "tag": "1.21"}`,
			want: TagTarget{Repository: "registry.example.com/api", Tag: "1.21"},
		},
		{
			name: "numeric tag survives as typed",
			in:   `{"tag": 1.21}`,
			want: TagTarget{Tag: "1.21"},
		},
		{
			name: "whole-number tag",
			in:   `{"tag": 2}`,
			want: TagTarget{Tag: "2"},
		},
		{
			name: "missing fields stay empty",
			in:   `{}`,
			want: TagTarget{},
		},
		{
			name:    "malformed JSON",
			in:      `{"tag":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TagTarget
			err := json.Unmarshal([]byte(tt.in), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Unmarshal = %+v, want %+v", got, tt.want)
			}
		})
	}
}
