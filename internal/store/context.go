package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// valueKind tags the variant held by a ContextValue.
type valueKind int

const (
	kindString valueKind = iota + 1
	kindNumber
	kindBool
)

// ContextValue is a session context entry: a string, a number or a bool.
type ContextValue struct {
	kind valueKind
	str  string
	num  float64
	b    bool
}

var ErrUnsupportedValue = errors.New("context values must be a string, number or boolean")

func String(s string) ContextValue { return ContextValue{kind: kindString, str: s} }

func Number(n float64) ContextValue { return ContextValue{kind: kindNumber, num: n} }

func Bool(b bool) ContextValue { return ContextValue{kind: kindBool, b: b} }

// AsString returns the value when it holds a string.
func (v ContextValue) AsString() (string, bool) { return v.str, v.kind == kindString }

// AsNumber returns the value when it holds a number.
func (v ContextValue) AsNumber() (float64, bool) { return v.num, v.kind == kindNumber }

// AsBool returns the value when it holds a bool.
func (v ContextValue) AsBool() (bool, bool) { return v.b, v.kind == kindBool }

func (v ContextValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindNumber:
		return json.Marshal(v.num)
	case kindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

func (v *ContextValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrUnsupportedValue
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(b, &bv); err != nil {
			return err
		}
		*v = Bool(bv)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = Number(n)
	default:
		return fmt.Errorf("%w: got %s", ErrUnsupportedValue, truncate(string(b), 32))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
