package dispatch

import (
	"math"

	"github.com/armandparker/echors/internal/hll"
	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/store"
)

// handleHLLAdd implements HLL_ADD: key, member[, member...]. Creates an
// empty sketch at the protocol's fixed precision on absence, then folds
// every member into it (spec §4.6).
func (d *Dispatcher) handleHLLAdd(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() < 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	lease := d.store.GetOrCreate(key, func() store.Value { return store.HLLValue(hll.NewDefault()) })
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindHLL {
		return nil, proto.TypeMismatch("HLL_ADD against a " + v.Kind.String() + " value")
	}

	for i := 1; i < cmd.Arity(); i++ {
		v.HLL.Add(cmd.Arg(i))
	}
	d.state.RecordSet()
	return okResponse()
}

// handleHLLCount implements HLL_COUNT: returns the sketch's cardinality
// estimate, as an Integer when it fits in a u32 and as a Long otherwise
// (spec §4.6).
func (d *Dispatcher) handleHLLCount(cmd *proto.Command) ([]byte, error) {
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
	if v.Kind != store.KindHLL {
		return nil, proto.TypeMismatch("HLL_COUNT against a " + v.Kind.String() + " value")
	}

	count := v.HLL.Count()
	if count <= math.MaxUint32 {
		return proto.EncodeInt(int32(uint32(count))), nil
	}
	return proto.EncodeLong(count), nil
}

// handleHLLReset implements HLL_RESET: zeros every register of an
// existing sketch in place. It is an error against a missing key or a
// non-HLL value (spec §4.6).
func (d *Dispatcher) handleHLLReset(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	lease, ok := d.store.GetMut(key)
	if !ok {
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindHLL {
		return nil, proto.TypeMismatch("HLL_RESET against a " + v.Kind.String() + " value")
	}

	v.HLL.Reset()
	return okResponse()
}
