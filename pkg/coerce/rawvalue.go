// Package coerce converts untyped external values into the typed defaults a
// graph port expects. RawValue is the only boundary through which dynamic
// values enter the engine; nothing past this package sees an `any`.
package coerce

import "fmt"

// Kind identifies the shape of a RawValue.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// RawValue is a closed tagged union over the value shapes a JSON-like
// request can carry.
type RawValue struct {
	kind Kind
	b    bool
	n    float64
	s    string
	seq  []RawValue
}

func Bool(v bool) RawValue      { return RawValue{kind: KindBool, b: v} }
func Number(v float64) RawValue { return RawValue{kind: KindNumber, n: v} }
func String(v string) RawValue  { return RawValue{kind: KindString, s: v} }

func Sequence(items ...RawValue) RawValue {
	return RawValue{kind: KindSequence, seq: items}
}

// FromAny converts a decoded JSON value into a RawValue. Only the shapes of
// the closed union are accepted; objects and nulls are rejected.
func FromAny(v any) (RawValue, error) {
	switch value := v.(type) {
	case bool:
		return Bool(value), nil
	case float64:
		return Number(value), nil
	case int:
		return Number(float64(value)), nil
	case int64:
		return Number(float64(value)), nil
	case string:
		return String(value), nil
	case []any:
		items := make([]RawValue, 0, len(value))

		for _, item := range value {
			raw, err := FromAny(item)
			if err != nil {
				return RawValue{}, err
			}

			items = append(items, raw)
		}

		return Sequence(items...), nil
	default:
		return RawValue{}, fmt.Errorf("%w: unsupported raw value shape %T", ErrInvalidValue, v)
	}
}

func (v RawValue) Kind() Kind { return v.kind }

func (v RawValue) AsBool() bool           { return v.b }
func (v RawValue) AsNumber() float64      { return v.n }
func (v RawValue) AsString() string       { return v.s }
func (v RawValue) AsSequence() []RawValue { return v.seq }
