package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexString decodes a JSON string, number, boolean or null into text.
// The market API is not consistent about quoting identifiers and counts.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*s = ""
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = FlexString(text)
	case trimmed[0] == '{' || trimmed[0] == '[':
		return fmt.Errorf("cannot decode %s into text", trimmed)
	default:
		*s = FlexString(trimmed)
	}
	return nil
}

// String returns the text, trimmed
func (s FlexString) String() string {
	return strings.TrimSpace(string(s))
}

// IsBlank reports whether the value is empty after trimming
func (s FlexString) IsBlank() bool {
	return s.String() == ""
}

// Or returns the text, or fallback when blank
func (s FlexString) Or(fallback string) string {
	if s.IsBlank() {
		return fallback
	}
	return s.String()
}

// OptionalNumber is a numeric field that may be absent, null, "TBA" or a formatted string
type OptionalNumber struct {
	Value float64
	Valid bool
}

// NumberOf wraps a present value
func NumberOf(value float64) OptionalNumber {
	return OptionalNumber{Value: value, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable input decodes as absent, never as an error.
func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil
		}
	}

	if value, ok := ParseLooseNumber(text); ok {
		*n = NumberOf(value)
	}
	return nil
}

// MarshalJSON encodes absent values as null
func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Or returns the value, or fallback when absent
func (n OptionalNumber) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// Int returns the value truncated to an int, or 0 when absent
func (n OptionalNumber) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// ParseLooseNumber parses "1,234.50", "₹ 95", "12x" style text. It reports false when
// no leading number is present.
func ParseLooseNumber(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	end := 0
	for end < len(cleaned) {
		c := cleaned[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}

	value, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseLooseAmount decodes a JSON amount given as a number or as text such as
// "₹1,23,456.50". Null, blank and "N/A" style values report false.
func ParseLooseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, false
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return decimal.Zero, false
		}
	}

	cleaned := strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "", " ", "").Replace(strings.TrimSpace(text))
	if amount, err := decimal.NewFromString(cleaned); err == nil {
		return amount, true
	}
	if value, ok := ParseLooseNumber(text); ok {
		return decimal.NewFromFloat(value), true
	}
	return decimal.Zero, false
}

func looseNullAmount(raw json.RawMessage) decimal.NullDecimal {
	if amount, ok := ParseLooseAmount(raw); ok {
		return decimal.NewNullDecimal(amount)
	}
	return decimal.NullDecimal{}
}

// KeyValue is one labelled row of a details table
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// KeyValueList decodes either a JSON object (keeping key order) or an array of
// {"key"|"label", "value"} rows.
type KeyValueList []KeyValue

// UnmarshalJSON implements json.Unmarshaler
func (l *KeyValueList) UnmarshalJSON(data []byte) error {
	*l = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var rows []struct {
			Key   FlexString `json:"key"`
			Label FlexString `json:"label"`
			Value FlexString `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			key := row.Key.Or(row.Label.String())
			*l = append(*l, KeyValue{Key: key, Value: row.Value.String()})
		}
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := decoder.Token(); err != nil {
		return err
	}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}
		key, _ := keyToken.(string)

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return err
		}
		var value FlexString
		if err := value.UnmarshalJSON(raw); err != nil {
			value = FlexString(raw)
		}
		*l = append(*l, KeyValue{Key: key, Value: value.String()})
	}
	return nil
}

// Get returns the first value stored under key, case-insensitively
func (l KeyValueList) Get(key string) (string, bool) {
	for _, kv := range l {
		if strings.EqualFold(kv.Key, key) {
			return kv.Value, true
		}
	}
	return "", false
}
