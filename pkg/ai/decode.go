package ai

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/immodash/immodash/internal/utils"
	"github.com/tidwall/gjson"
)

// ExtractJSON returns the JSON document contained in text. The whole text is
// tried first; failing that, the span from the first '{' to the last '}' is
// tried. Anything else is a *DecodeError carrying the first parse failure.
func ExtractJSON(text string) (string, error) {
	candidate := strings.TrimSpace(text)
	firstErr := validate(candidate)
	if firstErr == nil {
		return candidate, nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start == -1 || end <= start {
		return "", newDecodeError(firstErr, text)
	}

	sliced := candidate[start : end+1]
	if validate(sliced) != nil {
		return "", newDecodeError(firstErr, text)
	}
	utils.Log.Debugf("[ai] recovered JSON object from %d bytes of surrounding text", len(candidate)-len(sliced))
	return sliced, nil
}

// Decode parses text into a generic value. It either returns a fully parsed
// value or an error, never a partial result.
func Decode(text string) (any, error) {
	var v any
	if err := DecodeInto(text, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeObject is Decode restricted to JSON objects.
func DecodeObject(text string) (map[string]any, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newDecodeError(errors.New("expected a JSON object"), text)
	}
	return obj, nil
}

// DecodeInto runs the same recovery as Decode and unmarshals into dst. The
// contents of dst are unspecified when an error is returned.
func DecodeInto(text string, dst any) error {
	doc, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return newDecodeError(err, text)
	}
	return nil
}

func validate(s string) error {
	if gjson.Valid(s) {
		return nil
	}
	var v any
	return json.Unmarshal([]byte(s), &v)
}

func newDecodeError(err error, input string) *DecodeError {
	return &DecodeError{Err: err, Input: utils.Truncate(input, diagnosticLimit)}
}
