package entities

import (
	"database/sql/driver"
	"fmt"
)

// TriState is a three-valued flag. Crowd-sourced station attributes start
// out unknown and only move to true/false once somebody reports them, so
// "unknown" has to be a first-class state rather than a nullable bool.
type TriState string

const (
	TriUnknown TriState = "unknown"
	TriTrue    TriState = "true"
	TriFalse   TriState = "false"
)

// TriFromBool converts a known boolean into a TriState.
func TriFromBool(b bool) TriState {
	if b {
		return TriTrue
	}
	return TriFalse
}

// TriFromBoolPtr converts an optional boolean, mapping nil to TriUnknown.
func TriFromBoolPtr(b *bool) TriState {
	if b == nil {
		return TriUnknown
	}
	return TriFromBool(*b)
}

// Known reports whether the flag carries a definite value.
func (t TriState) Known() bool {
	return t == TriTrue || t == TriFalse
}

// Bool returns the flag as a boolean; ok is false for TriUnknown.
func (t TriState) Bool() (value, ok bool) {
	switch t {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	default:
		return false, false
	}
}

// Value implements driver.Valuer so the flag can be stored as text.
func (t TriState) Value() (driver.Value, error) {
	if t == "" {
		return string(TriUnknown), nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner.
func (t *TriState) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TriUnknown
	case string:
		*t = normalizeTriState(v)
	case []byte:
		*t = normalizeTriState(string(v))
	case bool:
		*t = TriFromBool(v)
	default:
		return fmt.Errorf("cannot scan %T into TriState", src)
	}
	return nil
}

func normalizeTriState(v string) TriState {
	switch TriState(v) {
	case TriTrue, TriFalse:
		return TriState(v)
	default:
		return TriUnknown
	}
}
