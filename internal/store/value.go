package store

import (
	"fmt"

	"github.com/armandparker/echors/internal/hll"
	"github.com/armandparker/echors/internal/proto"
)

// Kind identifies which variant of Value is populated.
type Kind byte

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindList
	KindHLL
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindHLL:
		return "hll"
	default:
		return "unknown"
	}
}

// Value is the tagged union described by spec §3 ("Value variant
// DataType"). Exactly one field is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   int32
	Float float32
	Str   []byte
	List  [][]byte
	HLL   *hll.Sketch
}

func IntValue(n int32) Value      { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float32) Value  { return Value{Kind: KindFloat, Float: f} }
func StringValue(b []byte) Value  { return Value{Kind: KindString, Str: b} }
func ListValue(e [][]byte) Value  { return Value{Kind: KindList, List: e} }
func HLLValue(s *hll.Sketch) Value { return Value{Kind: KindHLL, HLL: s} }

// Encode produces the on-wire tag-N encoding for Int/Float/String
// values. Lists and HLL sketches are never returned directly by GET
// (spec §4.6); callers that need a list's contents use
// proto.EncodeListContainer on its elements instead.
func (v Value) Encode() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return proto.EncodeInt(v.Int), nil
	case KindFloat:
		return proto.EncodeFloat(v.Float), nil
	case KindString:
		return proto.EncodeString(v.Str), nil
	default:
		return nil, fmt.Errorf("store: kind %s has no direct GET encoding", v.Kind)
	}
}
