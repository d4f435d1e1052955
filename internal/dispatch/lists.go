package dispatch

import (
	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/store"
)

// handleListPush implements LIST_PUSH: key, value[, value...]. Creates
// an empty list on absence, then appends each argument at the tail
// (spec §4.6).
func (d *Dispatcher) handleListPush(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() < 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	lease := d.store.GetOrCreate(key, func() store.Value { return store.ListValue(nil) })
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindList {
		return nil, proto.TypeMismatch("LIST_PUSH against a " + v.Kind.String() + " value")
	}

	for i := 1; i < cmd.Arity(); i++ {
		v.List = append(v.List, cloneBytes(cmd.Arg(i)))
	}
	lease.SetValue(v)
	d.state.RecordSet()
	return proto.EncodeInt(int32(len(v.List))), nil
}

// handleListPop implements LIST_POP: key[, count]. Removes up to count
// trailing elements and returns their concatenated serialization.
func (d *Dispatcher) handleListPop(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 && cmd.Arity() != 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	count := uint32(1)
	if cmd.Arity() == 2 {
		count, err = proto.LEUint32(cmd.Arg(1))
		if err != nil {
			return nil, proto.BadArgument(err.Error())
		}
	}

	lease, ok := d.store.GetMut(key)
	if !ok {
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindList {
		return nil, proto.TypeMismatch("LIST_POP against a " + v.Kind.String() + " value")
	}

	n := int(count)
	if n > len(v.List) {
		n = len(v.List)
	}
	popped := v.List[len(v.List)-n:]
	v.List = v.List[:len(v.List)-n]

	encoded := make([][]byte, n)
	for i, e := range popped {
		encoded[i] = proto.EncodeString(e)
	}

	lease.SetValue(v)
	d.state.RecordDel()
	return proto.EncodeListContainer(encoded), nil
}

// handleListRange implements LIST_RANGE(start,end): returns elements
// [start, min(end, len)) as a List container, without mutating the
// list (spec §4.6).
func (d *Dispatcher) handleListRange(cmd *proto.Command) ([]byte, error) {
	key, start, end, err := parseRangeArgs(cmd)
	if err != nil {
		return nil, err
	}

	lease, ok := d.store.Get(key)
	if !ok {
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindList {
		return nil, proto.TypeMismatch("LIST_RANGE against a " + v.Kind.String() + " value")
	}

	lo, hi := clampRange(start, end, len(v.List))
	return proto.EncodeListContainer(encodeElements(v.List[lo:hi])), nil
}

// handleListExtract implements LIST_EXTRACT(start,end): same windowing
// as LIST_RANGE, but destructively removes the extracted elements.
func (d *Dispatcher) handleListExtract(cmd *proto.Command) ([]byte, error) {
	key, start, end, err := parseRangeArgs(cmd)
	if err != nil {
		return nil, err
	}

	lease, ok := d.store.GetMut(key)
	if !ok {
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindList {
		return nil, proto.TypeMismatch("LIST_EXTRACT against a " + v.Kind.String() + " value")
	}

	lo, hi := clampRange(start, end, len(v.List))
	extracted := append([][]byte(nil), v.List[lo:hi]...)

	remaining := make([][]byte, 0, len(v.List)-(hi-lo))
	remaining = append(remaining, v.List[:lo]...)
	remaining = append(remaining, v.List[hi:]...)
	v.List = remaining

	lease.SetValue(v)
	if hi > lo {
		d.state.RecordDel()
	}
	return proto.EncodeListContainer(encodeElements(extracted)), nil
}

func (d *Dispatcher) handleListLength(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	lease, ok := d.store.Get(key)
	if !ok {
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindList {
		return nil, proto.TypeMismatch("LIST_LENGTH against a " + v.Kind.String() + " value")
	}
	return proto.EncodeInt(int32(len(v.List))), nil
}

func parseRangeArgs(cmd *proto.Command) (key string, start, end uint32, err error) {
	if cmd.Arity() != 3 {
		return "", 0, 0, proto.BadArgument(arityMessage(cmd))
	}
	key, err = keyArg(cmd, 0)
	if err != nil {
		return "", 0, 0, err
	}
	start, err = proto.LEUint32(cmd.Arg(1))
	if err != nil {
		return "", 0, 0, proto.BadArgument(err.Error())
	}
	end, err = proto.LEUint32(cmd.Arg(2))
	if err != nil {
		return "", 0, 0, proto.BadArgument(err.Error())
	}
	return key, start, end, nil
}

// clampRange clamps [start,end) to [0,length], per spec §4.6: "both
// clamped to len; if end <= start after clamping, returns the empty
// List envelope."
func clampRange(start, end uint32, length int) (int, int) {
	lo := int(start)
	if lo > length {
		lo = length
	}
	hi := int(end)
	if hi > length {
		hi = length
	}
	if hi <= lo {
		return lo, lo
	}
	return lo, hi
}

func encodeElements(elems [][]byte) [][]byte {
	encoded := make([][]byte, len(elems))
	for i, e := range elems {
		encoded[i] = proto.EncodeString(e)
	}
	return encoded
}
