package model

import (
	"encoding/json"
	"strconv"
)

// ValueKind discriminates the closed set of payload value types. Submission
// payloads carry only strings, numbers, and reference identifiers, so the
// merge and serialization paths stay statically checkable.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueID
)

// Value is one tagged payload value.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// StringValue wraps a free-text value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a numeric value.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// IDValue wraps a reference identifier (category, currency, report).
func IDValue(id string) Value { return Value{Kind: ValueID, Str: id} }

// String returns the string form of the value regardless of kind.
func (v Value) String() string {
	if v.Kind == ValueNumber {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// MarshalJSON serializes IDs and strings as JSON strings and numbers as
// JSON numbers, matching the backend's expectations.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == ValueNumber {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Str)
}

// Payload is the flat key/value mapping submitted to the backend
// representing one record's editable state.
type Payload map[string]Value

// Merge copies every entry of other into p. Later merges overwrite earlier
// ones on key collision; section ordering normally prevents real collisions
// but last-write-wins is part of the contract.
func (p Payload) Merge(other Payload) {
	for k, v := range other {
		p[k] = v
	}
}
