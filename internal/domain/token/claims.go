package token

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags a claim value's shape. The tag is decided exactly once, when
// the claim set is decoded; downstream components branch on it instead of
// re-inspecting runtime types.
type Kind int

const (
	// KindOther covers nested objects, arrays and null — anything that
	// must not cross the decision context boundary.
	KindOther Kind = iota
	KindText
	KindNumber
	KindBool
)

// Value is a closed variant over the claim value types a token payload
// can carry.
type Value struct {
	kind Kind
	text string
	num  float64
	flag bool
}

func Text(s string) Value    { return Value{kind: KindText, text: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, flag: b} }
func Other() Value           { return Value{kind: KindOther} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) Text() string    { return v.text }
func (v Value) Number() float64 { return v.num }
func (v Value) Bool() bool      { return v.flag }

// Primitive reports whether the value is forwardable as decision context.
func (v Value) Primitive() bool { return v.kind != KindOther }

// String renders the value as text, notably for use as a principal
// identifier. Numbers keep their shortest exact representation.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Export returns the JSON-serializable form of a primitive value, or nil
// for KindOther.
func (v Value) Export() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// ClaimSet maps claim names to tagged values. One is only ever produced
// from a payload whose signature has already been verified.
type ClaimSet map[string]Value

// DecodeClaimSet parses verified payload bytes and tags every claim
// value once.
func DecodeClaimSet(payload []byte) (ClaimSet, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedCredential)
	}

	claims := make(ClaimSet, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			claims[name] = Text(v)
		case float64:
			claims[name] = Number(v)
		case bool:
			claims[name] = Bool(v)
		default:
			claims[name] = Other()
		}
	}

	return claims, nil
}
