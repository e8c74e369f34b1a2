package formatters

import (
	"encoding/json"
	"errors"
	"strings"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/pkg/ai"
)

var errNotObject = errors.New("top-level JSON value is not an object")

// mustMarshal is a tiny helper for embedding payloads in prompts.
func mustMarshal(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeRecord parses model output into a ResumeRecord. Fences are stripped
// first; if the remainder still is not a JSON object the outermost {...} is
// tried.
func decodeRecord(raw string) (*model.ResumeRecord, error) {
	text := ai.StripFences(raw)
	rec, err := decodeObject(text)
	if err == nil {
		return rec, nil
	}
	if sub := ai.ExtractJSONObject(text); sub != "" && sub != text {
		if retry, err2 := decodeObject(sub); err2 == nil {
			return retry, nil
		}
	}
	return nil, &domain.MalformedModelOutputError{Reason: "response is not a JSON resume object", Raw: raw, Err: err}
}

// decodeObject only accepts an object. null, arrays and scalars would
// otherwise decode into a zero record without error.
func decodeObject(text string) (*model.ResumeRecord, error) {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return nil, errNotObject
	}
	var rec model.ResumeRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
