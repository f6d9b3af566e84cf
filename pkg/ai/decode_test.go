package ai

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeWellFormed(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,null,"x"],"c":{"d":"é"}}`,
		`[1,2,3]`,
		`"just a string"`,
		`42`,
		"  \n{\"padded\": true}\n ",
	}

	for _, in := range inputs {
		var want any
		if err := json.Unmarshal([]byte(in), &want); err != nil {
			t.Fatalf("bad fixture %q: %v", in, err)
		}
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", in, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Decode(%q):\nexpected: %s\nactual:   %s", in, mustJSON(want), mustJSON(got))
		}
	}
}

func TestDecodeRecoversEmbeddedObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "prose around object",
			in:   `Voici le rapport demandé : {"zone":"12 Rue Foch","type":"boitage"} Bonne journée !`,
			want: map[string]any{"zone": "12 Rue Foch", "type": "boitage"},
		},
		{
			name: "nested object",
			in:   "Résultat:\n{\"a\":{\"b\":1}}\n-- fin",
			want: map[string]any{"a": map[string]any{"b": float64(1)}},
		},
		{
			name: "braces inside strings",
			in:   `note: {"msg":"pas de } ici"} ok`,
			want: map[string]any{"msg": "pas de } ici"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeObject(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected:\n%s\nactual:\n%s", mustJSON(tc.want), mustJSON(got))
			}
		})
	}
}

func TestDecodeFailures(t *testing.T) {
	inputs := []string{
		"",
		"pas de json ici",
		`} inversé {`,
		`{"a": 1`,
		`{bad} puis {"a":1}`,
		`{"a": [1, 2}`,
	}

	for _, in := range inputs {
		got, err := Decode(in)
		if err == nil {
			t.Fatalf("Decode(%q) should fail, got %v", in, got)
		}
		if got != nil {
			t.Fatalf("Decode(%q) returned a value alongside the error: %v", in, got)
		}
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("Decode(%q) error is %T, want *DecodeError", in, err)
		}
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Decode(%q) should carry the original parse failure, got %v", in, err)
		}
	}
}

func TestDecodeObjectRejectsArrays(t *testing.T) {
	_, err := DecodeObject(`[{"a":1}]`)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestDecodeInto(t *testing.T) {
	var dst struct {
		Intent string `json:"intent"`
	}
	if err := DecodeInto("ok: {\"intent\":\"reset_campaign\"}", &dst); err != nil {
		t.Fatal(err)
	}
	if dst.Intent != "reset_campaign" {
		t.Fatalf("got %q", dst.Intent)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json {\"a\":1}```", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"texte simple", "texte simple"},
	}
	for _, tc := range tests {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func mustJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
