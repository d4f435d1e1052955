package dispatch

import (
	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/store"
)

func (d *Dispatcher) handleTest(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 0 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	return okResponse()
}

func (d *Dispatcher) handleInfo(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 0 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	text := d.state.Snapshot().InfoText()
	return proto.EncodeString([]byte(text)), nil
}

// handleSetString implements SET_STRING: key, value, [expire] (spec
// §4.6). It is the only SET variant carrying an expire argument in this
// protocol revision.
func (d *Dispatcher) handleSetString(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 2 && cmd.Arity() != 3 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}
	value := cmd.Arg(1)

	expire := store.ExpireParameter{}
	if cmd.Arity() == 3 {
		expire = store.ParseExpireParameter(cmd.Arg(2))
	}

	d.store.Set(key, store.StringValue(cloneBytes(value)), expire)
	d.state.RecordSet()
	return okResponse()
}

func (d *Dispatcher) handleSetInt(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}
	n, err := proto.LEInt32(cmd.Arg(1))
	if err != nil {
		return nil, proto.BadArgument(err.Error())
	}

	d.store.Set(key, store.IntValue(n), store.ExpireParameter{})
	d.state.RecordSet()
	return okResponse()
}

func (d *Dispatcher) handleSetFloat(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}
	f, err := proto.LEFloat32(cmd.Arg(1))
	if err != nil {
		return nil, proto.BadArgument(err.Error())
	}

	d.store.Set(key, store.FloatValue(f), store.ExpireParameter{})
	d.state.RecordSet()
	return okResponse()
}

// handleGet implements GET: returns the serialized Int/Float/String
// value, or an error for List/HLL and for missing/expired keys (spec
// §4.6).
func (d *Dispatcher) handleGet(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	lease, ok := d.store.Get(key)
	if !ok {
		d.state.RecordGet(false)
		return nil, proto.NotFound("Key not found")
	}
	defer lease.Release()

	v := lease.Value()
	switch v.Kind {
	case store.KindList, store.KindHLL:
		d.state.RecordGet(true)
		return nil, proto.TypeMismatch("GET against a " + v.Kind.String() + " value")
	}

	payload, err := v.Encode()
	if err != nil {
		return nil, proto.TypeMismatch(err.Error())
	}
	d.state.RecordGet(true)
	return payload, nil
}

// handleDelete implements DELETE: one or more keys, absent keys
// silently skipped, never an error (spec §4.6).
func (d *Dispatcher) handleDelete(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() < 1 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}

	keys := make([]string, 0, cmd.Arity())
	for i := 0; i < cmd.Arity(); i++ {
		key, err := keyArg(cmd, i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	removed := d.store.RemoveAll(keys)
	for i := 0; i < removed; i++ {
		d.state.RecordDel()
	}
	return proto.EncodeInt(int32(removed)), nil
}

func (d *Dispatcher) handleIncrInt(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 && cmd.Arity() != 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	delta := int32(1)
	if cmd.Arity() == 2 {
		delta, err = proto.LEInt32(cmd.Arg(1))
		if err != nil {
			return nil, proto.BadArgument(err.Error())
		}
	}

	lease := d.store.GetOrCreate(key, func() store.Value { return store.IntValue(0) })
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindInt {
		return nil, proto.TypeMismatch("INCR_INT against a " + v.Kind.String() + " value")
	}

	v.Int += delta
	lease.SetValue(v)
	d.state.RecordSet()
	return proto.EncodeInt(v.Int), nil
}

func (d *Dispatcher) handleIncrFloat(cmd *proto.Command) ([]byte, error) {
	if cmd.Arity() != 1 && cmd.Arity() != 2 {
		return nil, proto.BadArgument(arityMessage(cmd))
	}
	key, err := keyArg(cmd, 0)
	if err != nil {
		return nil, err
	}

	delta := float32(1.0)
	if cmd.Arity() == 2 {
		delta, err = proto.LEFloat32(cmd.Arg(1))
		if err != nil {
			return nil, proto.BadArgument(err.Error())
		}
	}

	lease := d.store.GetOrCreate(key, func() store.Value { return store.FloatValue(0) })
	defer lease.Release()

	v := lease.Value()
	if v.Kind != store.KindFloat {
		return nil, proto.TypeMismatch("INCR_FLOAT against a " + v.Kind.String() + " value")
	}

	v.Float += delta
	lease.SetValue(v)
	d.state.RecordSet()
	return proto.EncodeFloat(v.Float), nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
