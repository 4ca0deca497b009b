package profile

import (
	"fmt"
	"strconv"
)

// Kind is the declared type of an attribute's values.
type Kind int

const (
	KindInvalid Kind = iota
	KindEnum
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	}
	return "invalid"
}

// Value is a tagged attribute value. Two values are equal only when both the
// kind and the payload match, so an enum "true" never equals the bool true.
type Value struct {
	kind Kind
	text string
	flag bool
}

// Enum returns an enum-kinded value.
func Enum(s string) Value {
	return Value{kind: KindEnum, text: s}
}

// Bool returns a bool-kinded value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// Interface returns the value as a plain Go string or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindEnum:
		return v.text
	case KindBool:
		return v.flag
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindEnum:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	}
	return "<invalid>"
}

// ParseValue converts a raw decoded value (from YAML or JSON) into the tagged
// value of attr. No coercion is performed: a bool attribute only accepts a
// bool and an enum attribute only accepts an in-domain string.
func ParseValue(attr Attribute, raw any) (Value, error) {
	if !attr.Recognized() {
		return Value{}, fmt.Errorf("%w: unrecognized attribute %q", ErrInvalidProfile, attr)
	}

	var v Value
	switch attr.Kind() {
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidProfile, attr, raw)
		}
		v = Bool(b)
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidProfile, attr, raw)
		}
		v = Enum(s)
	}

	if !attr.Admits(v) {
		return Value{}, fmt.Errorf("%w: %s does not admit %q", ErrInvalidProfile, attr, v)
	}
	return v, nil
}
