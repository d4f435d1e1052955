package store

import (
	"encoding/binary"
	"time"
)

// ExpireKind selects which of the four directives in spec §4.4 an
// ExpireParameter represents.
type ExpireKind byte

const (
	ExpireNone ExpireKind = iota
	ExpireAt
	ExpireIn
	KeepTTL
)

// ExpireParameter is the parsed form of the optional expire argument
// accepted by SET_STRING. SET_INT and SET_FLOAT take no expire argument
// and always pass the zero value (no TTL).
type ExpireParameter struct {
	Kind ExpireKind
	// At holds the absolute ms-since-epoch for ExpireAt.
	At uint64
	// In holds the relative ms for ExpireIn.
	In uint32
}

// ParseExpireParameter decodes a single wire argument into an
// ExpireParameter, per the size-based dispatch in spec §4.4:
// 8 bytes -> EXPIRE_AT, 4 bytes -> EXPIRE_IN, 1 byte -> KEEP_TTL,
// anything else -> NONE.
func ParseExpireParameter(arg []byte) ExpireParameter {
	switch len(arg) {
	case 8:
		return ExpireParameter{Kind: ExpireAt, At: binary.LittleEndian.Uint64(arg)}
	case 4:
		return ExpireParameter{Kind: ExpireIn, In: binary.LittleEndian.Uint32(arg)}
	case 1:
		return ExpireParameter{Kind: KeepTTL}
	default:
		return ExpireParameter{Kind: ExpireNone}
	}
}

// resolve computes the new expire_ms field given the prior entry's
// expiry (0 if there was no prior entry, or it had no TTL).
func (p ExpireParameter) resolve(priorExpireMs int64, now time.Time) int64 {
	switch p.Kind {
	case ExpireAt:
		return int64(p.At)
	case ExpireIn:
		return now.UnixMilli() + int64(p.In)
	case KeepTTL:
		return priorExpireMs
	default:
		return 0
	}
}
