package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberInput keeps the raw text of a numeric field so that admin forms may
// send either 12.5 or "12.5". Parsing is deferred to validation, where a bad
// value becomes a field-level error instead of a decode failure.
type NumberInput string

func (n *NumberInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberInput(strings.TrimSpace(s))
	default:
		*n = NumberInput(b)
	}
	return nil
}

func Number(v string) *NumberInput {
	n := NumberInput(v)
	return &n
}

// Decimal reports the parsed value and whether one was given at all.
func (n NumberInput) Decimal() (decimal.Decimal, bool, error) {
	raw := strings.TrimSpace(string(n))
	if raw == "" {
		return decimal.Decimal{}, false, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, true, err
	}
	return d, true, nil
}
