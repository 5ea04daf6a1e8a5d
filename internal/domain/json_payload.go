package domain

import (
	"database/sql/driver"
	"fmt"
)

// JSONPayload is a raw JSON column that may be NULL. An empty payload is
// stored as NULL and a NULL column scans back as an empty payload.
type JSONPayload []byte

// Scan implements the sql.Scanner interface.
func (p *JSONPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(JSONPayload(nil), v...)
	case string:
		*p = JSONPayload(v)
	default:
		return fmt.Errorf("JSONPayload: cannot scan %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface.
func (p JSONPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return string(p), nil
}

// MarshalJSON emits the payload verbatim, or null when empty.
func (p JSONPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON keeps a copy of the raw bytes.
func (p *JSONPayload) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	*p = append((*p)[0:0], data...)
	return nil
}
