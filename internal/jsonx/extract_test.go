package jsonx

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractPriorityChain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced with language tag",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nthanks",
			want: `{"a": 1}`,
		},
		{
			name: "fenced without tag",
			raw:  "```\n{\"a\": 2}\n```",
			want: `{"a": 2}`,
		},
		{
			name: "outermost braces",
			raw:  "The result is {\"a\": {\"b\": 3}} as requested.",
			want: `{"a": {"b": 3}}`,
		},
		{
			name: "raw passthrough",
			raw:  `"just a string"`,
			want: `"just a string"`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Extract(tc.raw); got != tc.want {
				t.Fatalf("Extract(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestFencedAndUnwrappedParseIdentically(t *testing.T) {
	t.Parallel()

	plain := `{"classification": "Health", "credibility_score": 0.8}`
	fenced := "```json\n" + plain + "\n```"

	var a, b map[string]any
	if err := Decode(plain, &a); err != nil {
		t.Fatalf("decode plain: %v", err)
	}
	if err := Decode(fenced, &b); err != nil {
		t.Fatalf("decode fenced: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fenced decode differs: %v vs %v", a, b)
	}
}

func TestDecodeReportsParseFailure(t *testing.T) {
	t.Parallel()

	var v map[string]any
	if err := Decode("no braces here at all", &v); err == nil {
		t.Fatal("expected parse error for non-JSON reply")
	}

	// A malformed fenced block must not fall through to a panic.
	var raw json.RawMessage
	if err := Decode("```json\n{broken\n```", &raw); err == nil {
		t.Fatal("expected parse error for malformed fenced JSON")
	}
}
