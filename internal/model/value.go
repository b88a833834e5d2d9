package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueNumber ValueKind = "number"
	ValueList   ValueKind = "list"
	ValueBool   ValueKind = "bool"
)

// ErrInvalidValue is returned when JSON does not decode to any response variant
var ErrInvalidValue = errors.New("invalid response value")

// Value is a response: a string, a number, an ordered list of strings or a
// boolean. The zero Value holds nothing and means "unanswered".
// Values are immutable; list accessors hand out copies.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	list []string
	b    bool
}

// StringValue wraps a text or single-choice answer
func StringValue(s string) Value {
	return Value{kind: ValueString, str: s}
}

// NumberValue wraps a rating answer
func NumberValue(n float64) Value {
	return Value{kind: ValueNumber, num: n}
}

// ListValue wraps a multi-select answer
func ListValue(items []string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: ValueList, list: cp}
}

// BoolValue wraps a boolean answer
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, b: b}
}

// Kind returns the variant tag, empty for the zero Value
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether v holds no answer
func (v Value) IsZero() bool { return v.kind == "" }

func (v Value) AsString() (string, bool) { return v.str, v.kind == ValueString }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == ValueNumber }
func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == ValueBool }

func (v Value) AsList() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Flatten renders the value for the wire row: lists joined with ", ",
// scalars stringified, the zero Value as "".
func (v Value) Flatten() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueList:
		return strings.Join(v.list, ", ")
	case ValueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Equal reports whether two values hold the same variant and content
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueNumber:
		return v.num == o.num
	case ValueBool:
		return v.b == o.b
	case ValueList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the bare variant, the same shape the web client stores
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case ValueBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON infers the variant from the JSON token
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidValue
	}
	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return ErrInvalidValue
		}
		*v = ListValue(items)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return ErrInvalidValue
		}
		*v = NumberValue(n)
	}
	return nil
}

// Responses maps question keys to answers for one survey session
type Responses map[string]Value

// Clone returns an independent copy
func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
