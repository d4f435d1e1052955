package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armandparker/echors/internal/echolog"
	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/serverstate"
	"github.com/armandparker/echors/internal/store"
)

func newTestDispatcher() *Dispatcher {
	return New(store.New(), serverstate.New(), echolog.Nop())
}

func cmd(t proto.CommandType, args ...string) *proto.Command {
	byteArgs := make([][]byte, len(args))
	for i, a := range args {
		byteArgs[i] = []byte(a)
	}
	return &proto.Command{Type: t, Args: byteArgs}
}

func TestSetStringThenGet(t *testing.T) {
	d := newTestDispatcher()

	_, err := d.Execute(cmd(proto.CmdSetString, "k", "hello"))
	require.NoError(t, err)

	payload, err := d.Execute(cmd(proto.CmdGet, "k"))
	require.NoError(t, err)
	s, err := proto.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(s))
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	d := newTestDispatcher()

	_, err := d.Execute(cmd(proto.CmdGet, "missing"))
	require.Error(t, err)
	var perr *proto.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, proto.ErrKindNotFound, perr.Kind)
}

func TestIncrIntWraparound(t *testing.T) {
	d := newTestDispatcher()
	c := &proto.Command{Type: proto.CmdSetInt, Args: [][]byte{[]byte("n"), proto.EncodeInt(2147483647)[1:]}}
	_, err := d.Execute(c)
	require.NoError(t, err)

	incr := &proto.Command{Type: proto.CmdIncrInt, Args: [][]byte{[]byte("n"), proto.EncodeInt(1)[1:]}}
	payload, err := d.Execute(incr)
	require.NoError(t, err)
	n, err := proto.DecodeInt(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), n, "signed int32 overflow must wrap, not panic")
}

func TestIncrIntCreatesOnAbsence(t *testing.T) {
	d := newTestDispatcher()
	payload, err := d.Execute(cmd(proto.CmdIncrInt, "fresh"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdSetString, "k", "v"))
	require.NoError(t, err)

	payload, err := d.Execute(cmd(proto.CmdDelete, "k"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)

	_, err = d.Execute(cmd(proto.CmdGet, "k"))
	require.Error(t, err)
}

func TestDeleteIsIdempotentAtDispatchLevel(t *testing.T) {
	d := newTestDispatcher()
	payload, err := d.Execute(cmd(proto.CmdDelete, "never-existed"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(0), n)
}

func TestListPushRangeLength(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdListPush, "l", "a", "b", "c"))
	require.NoError(t, err)

	lenPayload, err := d.Execute(cmd(proto.CmdListLength, "l"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(lenPayload)
	require.NoError(t, err)
	assert.Equal(t, int32(3), n)

	rangeCmd := &proto.Command{Type: proto.CmdListRange, Args: [][]byte{
		[]byte("l"), proto.EncodeInt(0)[1:], proto.EncodeInt(2)[1:],
	}}
	payload, err := d.Execute(rangeCmd)
	require.NoError(t, err)
	elements, err := proto.DecodeListContainer(payload)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	first, _ := proto.DecodeString(elements[0])
	assert.Equal(t, "a", string(first))
}

func TestListPopRemovesTrailingElements(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdListPush, "l", "a", "b", "c"))
	require.NoError(t, err)

	popCmd := &proto.Command{Type: proto.CmdListPop, Args: [][]byte{[]byte("l"), proto.EncodeInt(2)[1:]}}
	payload, err := d.Execute(popCmd)
	require.NoError(t, err)
	popped, err := proto.DecodeListContainer(payload)
	require.NoError(t, err)
	require.Len(t, popped, 2)

	lenPayload, err := d.Execute(cmd(proto.CmdListLength, "l"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(lenPayload)
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)
}

func TestListLengthAgainstMissingKeyIsNotFound(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdListLength, "nope"))
	require.Error(t, err)
	var perr *proto.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, proto.ErrKindNotFound, perr.Kind)
}

func TestHLLAddAndCount(t *testing.T) {
	d := newTestDispatcher()
	for i := 0; i < 200; i++ {
		_, err := d.Execute(cmd(proto.CmdHLLAdd, "h", itoa(i)))
		require.NoError(t, err)
	}

	payload, err := d.Execute(cmd(proto.CmdHLLCount, "h"))
	require.NoError(t, err)
	n, err := proto.DecodeInt(payload)
	require.NoError(t, err)
	assert.NotZero(t, n)
}

func TestHLLResetAgainstMissingKeyErrors(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdHLLReset, "nope"))
	require.Error(t, err)
}

func TestTypeMismatchOnGetAgainstList(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdListPush, "l", "x"))
	require.NoError(t, err)

	_, err = d.Execute(cmd(proto.CmdGet, "l"))
	require.Error(t, err)
	var perr *proto.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, proto.ErrKindTypeMismatch, perr.Kind)
}

func TestFlushRemovesEverything(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Execute(cmd(proto.CmdSetString, "k", "v"))
	require.NoError(t, err)

	_, err = d.Execute(&proto.Command{Type: proto.CmdFlush})
	require.NoError(t, err)

	_, err = d.Execute(cmd(proto.CmdGet, "k"))
	require.Error(t, err)
}

func itoa(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var b []byte
	for i > 0 {
		b = append([]byte{digits[i%10]}, b...)
		i /= 10
	}
	return string(b)
}
