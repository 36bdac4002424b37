// Package converter turns line-delimited JSON query records into
// tab-separated "<_id>\t<text>" lines.
package converter

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
)

const (
	idKey   = "_id"
	textKey = "text"
)

// Record is one query from the source file. Extra JSON keys are ignored.
type Record struct {
	ID   string `json:"_id"`
	Text string `json:"text"`
}

// ParseLine decodes a single JSON object. Keys are matched exactly, so
// "Text" or "_ID" do not stand in for "text" or "_id". lineNo is 1-based and
// only used in error messages.
func ParseLine(line []byte, lineNo int) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Record{}, apperrors.AtLine(apperrors.ErrMalformedInput, lineNo, "%v", err)
	}
	id, err := stringField(fields, idKey, lineNo)
	if err != nil {
		return Record{}, err
	}
	text, err := stringField(fields, textKey, lineNo)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Text: text}, nil
}

// stringField treats an absent key and a JSON null alike.
func stringField(fields map[string]json.RawMessage, key string, lineNo int) (string, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", apperrors.AtLine(apperrors.ErrMissingKey, lineNo, "object has no %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperrors.AtLine(apperrors.ErrMalformedInput, lineNo, "%q is not a string: %v", key, err)
	}
	return s, nil
}

// FormatLine renders a record as one output line. Tabs and newlines inside
// Text are written as-is.
func FormatLine(r Record) string {
	return r.ID + "\t" + r.Text + "\n"
}
