package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strconv"
)

// Value is one client-supplied column value. It keeps whatever JSON the
// client sent and binds it as-is, leaving coercion and rejection to the
// database. Numbers are kept as their literal text; objects and arrays are
// bound as their compact JSON text. The zero Value is NULL.
type Value struct {
	raw interface{} // nil, string, bool or json.Number
}

// V wraps a Go value for writing.
func V[T string | bool | float64 | int](x T) Value {
	switch n := any(x).(type) {
	case float64:
		return Value{raw: json.Number(strconv.FormatFloat(n, 'f', -1, 64))}
	case int:
		return Value{raw: json.Number(strconv.Itoa(n))}
	default:
		return Value{raw: n}
	}
}

// Null reports whether v is written as NULL.
func (v Value) Null() bool { return v.raw == nil }

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var x interface{}
	if err := dec.Decode(&x); err != nil {
		return err
	}

	switch x.(type) {
	case map[string]interface{}, []interface{}:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		x = buf.String()
	}
	v.raw = x
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	if n, ok := v.raw.(json.Number); ok {
		return n.String(), nil
	}
	return v.raw, nil
}

// GormDataType stops gorm from parsing Value as an association.
func (Value) GormDataType() string { return "value" }
