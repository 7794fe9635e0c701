package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var errUnsupportedJSONSource = errors.New("unsupported json column source")

// JSONMap is a free-form JSON object column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	return marshalJSON(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	return unmarshalJSON(src, m)
}

// StringList is a JSON array of strings column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return marshalJSON(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return unmarshalJSON(src, l)
}

func marshalJSON(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}

	return string(raw), nil
}

// UnmarshalJSONColumn decodes a json/jsonb column value into dst. NULL leaves dst untouched.
func UnmarshalJSONColumn(src, dst any) error {
	return unmarshalJSON(src, dst)
}

func unmarshalJSON(src, dst any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedJSONSource, src)
	}

	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}

	return nil
}
