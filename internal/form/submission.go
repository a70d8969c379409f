package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed classifies a request body that could not be read or parsed as
// JSON. Handlers map it to a 400.
var ErrMalformed = errors.New("malformed request body")

// Submission is the transient record carried by a single form request. It is
// created on parse, consumed by the dispatcher, and never stored.
type Submission map[string]any

// Decode buffers r to completion and parses it as JSON. An empty stream
// yields an empty record. A stream error or malformed JSON yields
// ErrMalformed.
func Decode(r io.Reader) (Submission, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Submission{}, nil
	}

	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if sub == nil {
		sub = Submission{}
	}

	return sub, nil
}

// String returns the field as a trimmed string. Numbers and booleans are
// coerced, absent fields become "".
func (s Submission) String(key string) string {
	return Coerce(s[key])
}

// Join returns the field with array values joined by ", ". Scalars behave
// like String, absent fields become "".
func (s Submission) Join(key string) string {
	arr, ok := s[key].([]any)
	if !ok {
		return s.String(key)
	}

	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = Coerce(v)
	}
	return strings.Join(parts, ", ")
}

// Coerce renders a decoded JSON value as a trimmed string.
func Coerce(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
