package extract

import (
	"reflect"
	"testing"
)

func TestDecodeLoose(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{
			name: "clean object",
			in:   `{"revenue": "100"}`,
			want: map[string]any{"revenue": "100"},
		},
		{
			name: "surrounding prose",
			in:   `Here are the values you asked for: {"revenue": "100"} Let me know if you need more.`,
			want: map[string]any{"revenue": "100"},
		},
		{
			name: "code fence",
			in:   "```json\n{\"revenue\": \"100\"}\n```",
			want: map[string]any{"revenue": "100"},
		},
		{
			name: "trailing comma",
			in:   `{"a": "1", "b": "2",}`,
			want: map[string]any{"a": "1", "b": "2"},
		},
		{
			name: "smart quotes",
			in:   `{“a”: “1”}`,
			want: map[string]any{"a": "1"},
		},
		{
			name: "array",
			in:   `[1, 2, 3,]`,
			want: []any{float64(1), float64(2), float64(3)},
		},
		{
			name: "braces inside strings",
			in:   `{"note": "see {section 2} for details"}`,
			want: map[string]any{"note": "see {section 2} for details"},
		},
		{
			name: "nested object with trailing prose",
			in:   `{"a": {"b": null}} trailing`,
			want: map[string]any{"a": map[string]any{"b": nil}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLoose(tt.in)
			if err != nil {
				t.Fatalf("DecodeLoose: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeLoose_Failures(t *testing.T) {
	for _, in := range []string{
		"",
		"no json here",
		`{"never closed": "true"`,
	} {
		if _, err := DecodeLoose(in); err == nil {
			t.Errorf("DecodeLoose(%q): expected error", in)
		}
	}
}

func TestDecodeObject_RejectsArray(t *testing.T) {
	if _, err := DecodeObject(`[1, 2]`); err == nil {
		t.Fatal("expected error for non-object JSON")
	}
}
