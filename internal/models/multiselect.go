package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeState records how a stored multi-select value was read back.
type DecodeState int

const (
	// Absent means the column was NULL or the field was not submitted.
	Absent DecodeState = iota
	// Parsed means the stored text was a JSON array of strings.
	Parsed
	// Unparsed means the stored text could not be decoded; Raw holds it verbatim.
	Unparsed
)

func (s DecodeState) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Unparsed:
		return "unparsed"
	default:
		return "absent"
	}
}

// MultiSelect is an ordered list of chosen options. Values that were stored
// malformed keep their original text so callers can still show them.
type MultiSelect struct {
	Values []string
	Raw    string
	State  DecodeState
}

// Choices builds a parsed MultiSelect from the given options.
func Choices(values ...string) MultiSelect {
	if values == nil {
		values = []string{}
	}
	return MultiSelect{Values: values, State: Parsed}
}

// ParseMultiSelect decodes stored column text. A JSON array yields its
// elements, with non-string elements kept as their JSON text; a JSON null is
// Absent. Anything else yields an Unparsed value carrying the text unchanged.
func ParseMultiSelect(text string) MultiSelect {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return MultiSelect{Raw: text, State: Unparsed}
	}
	switch v := decoded.(type) {
	case nil:
		return MultiSelect{}
	case []any:
		values := make([]string, 0, len(v))
		for _, elem := range v {
			if str, ok := elem.(string); ok {
				values = append(values, str)
				continue
			}
			b, err := json.Marshal(elem)
			if err != nil {
				return MultiSelect{Raw: text, State: Unparsed}
			}
			values = append(values, string(b))
		}
		return MultiSelect{Values: values, State: Parsed}
	default:
		return MultiSelect{Raw: text, State: Unparsed}
	}
}

func (m MultiSelect) Present() bool   { return m.State != Absent }
func (m MultiSelect) Malformed() bool { return m.State == Unparsed }

// Encode returns the column text for a parsed value. ok is false when nothing
// should be written.
func (m MultiSelect) Encode() (text string, ok bool, err error) {
	switch m.State {
	case Absent:
		return "", false, nil
	case Unparsed:
		return m.Raw, true, nil
	}
	values := m.Values
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// MarshalJSON writes null, the option array, or the raw stored text as a JSON string.
func (m MultiSelect) MarshalJSON() ([]byte, error) {
	switch m.State {
	case Parsed:
		if m.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(m.Values)
	case Unparsed:
		return json.Marshal(m.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null or an array of strings.
func (m *MultiSelect) UnmarshalJSON(data []byte) error {
	return m.decode(data, false)
}

// UnmarshalStoredJSON is UnmarshalJSON that also accepts a JSON string, read
// as stored column text. It reads back what MarshalJSON wrote for an Unparsed
// value.
func (m *MultiSelect) UnmarshalStoredJSON(data []byte) error {
	return m.decode(data, true)
}

func (m *MultiSelect) decode(data []byte, allowText bool) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = MultiSelect{}
		return nil
	}
	if allowText {
		var text string
		if err := json.Unmarshal(data, &text); err == nil {
			*m = ParseMultiSelect(text)
			return nil
		}
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("expected a list of strings: %w", err)
	}
	*m = Choices(values...)
	return nil
}
