package proto

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeInt produces the tag-1 encoding of a signed 32-bit integer.
func EncodeInt(n int32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(TagInt)
	binary.LittleEndian.PutUint32(buf[1:], uint32(n))
	return buf
}

// EncodeFloat produces the tag-2 encoding of an IEEE-754 binary32 float.
func EncodeFloat(f float32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(TagFloat)
	binary.LittleEndian.PutUint32(buf[1:], math.Float32bits(f))
	return buf
}

// EncodeString produces the tag-3 encoding of an opaque byte string:
// tag(1) + length(4, LE) + data.
func EncodeString(s []byte) []byte {
	buf := make([]byte, 5+len(s))
	buf[0] = byte(TagString)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(s)))
	copy(buf[5:], s)
	return buf
}

// EncodeLong produces the tag-6 encoding used for HLL cardinalities
// that overflow u32.
func EncodeLong(n uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(TagLong)
	binary.LittleEndian.PutUint64(buf[1:], n)
	return buf
}

// EncodeListContainer wraps pre-encoded tag-3 elements in a tag-4
// container prefix: one tag byte followed by the raw concatenation of
// the element encodings. Each element is self-describing (tag-3 carries
// its own length), so no outer element count is needed to find the
// boundary between elements.
func EncodeListContainer(elements [][]byte) []byte {
	total := 1
	for _, e := range elements {
		total += len(e)
	}
	buf := make([]byte, total)
	buf[0] = byte(TagList)
	offset := 1
	for _, e := range elements {
		offset += copy(buf[offset:], e)
	}
	return buf
}

// DecodeListContainer parses a tag-4 container produced by
// EncodeListContainer back into its tag-3 element encodings.
func DecodeListContainer(buf []byte) ([][]byte, error) {
	if len(buf) < 1 || Tag(buf[0]) != TagList {
		return nil, fmt.Errorf("proto: not a list encoding")
	}
	rest := buf[1:]
	var elements [][]byte
	for len(rest) > 0 {
		if len(rest) < 5 || Tag(rest[0]) != TagString {
			return nil, fmt.Errorf("proto: malformed list element")
		}
		n := binary.LittleEndian.Uint32(rest[1:5])
		elemLen := 5 + int(n)
		if elemLen > len(rest) {
			return nil, fmt.Errorf("proto: truncated list element")
		}
		elements = append(elements, rest[:elemLen])
		rest = rest[elemLen:]
	}
	return elements, nil
}

// DecodeInt parses a tag-1 encoding produced by EncodeInt.
func DecodeInt(buf []byte) (int32, error) {
	if len(buf) != 5 || Tag(buf[0]) != TagInt {
		return 0, fmt.Errorf("proto: not an integer encoding")
	}
	return int32(binary.LittleEndian.Uint32(buf[1:])), nil
}

// DecodeFloat parses a tag-2 encoding produced by EncodeFloat.
func DecodeFloat(buf []byte) (float32, error) {
	if len(buf) != 5 || Tag(buf[0]) != TagFloat {
		return 0, fmt.Errorf("proto: not a float encoding")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[1:])), nil
}

// DecodeString parses a tag-3 encoding produced by EncodeString.
func DecodeString(buf []byte) ([]byte, error) {
	if len(buf) < 5 || Tag(buf[0]) != TagString {
		return nil, fmt.Errorf("proto: not a string encoding")
	}
	n := binary.LittleEndian.Uint32(buf[1:5])
	if len(buf) != 5+int(n) {
		return nil, fmt.Errorf("proto: string length mismatch")
	}
	return buf[5:], nil
}

// LEUint32, LEInt32, LEFloat32 and LEUint64 are small shared helpers for the numeric
// argument layouts in §4.5 (start/end/count/delta arguments).
func LEUint32(buf []byte) (uint32, error) {
	if len(buf) != 4 {
		return 0, fmt.Errorf("proto: expected 4-byte argument, got %d", len(buf))
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func LEInt32(buf []byte) (int32, error) {
	v, err := LEUint32(buf)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func LEFloat32(buf []byte) (float32, error) {
	v, err := LEUint32(buf)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func LEUint64(buf []byte) (uint64, error) {
	if len(buf) != 8 {
		return 0, fmt.Errorf("proto: expected 8-byte argument, got %d", len(buf))
	}
	return binary.LittleEndian.Uint64(buf), nil
}
