package proto

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFrame(cmdType CommandType, args ...[]byte) []byte {
	var body bytes.Buffer
	var typeBuf [2]byte
	binary.LittleEndian.PutUint16(typeBuf[:], uint16(cmdType))
	body.Write(typeBuf[:])
	for _, a := range args {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(a)))
		body.Write(lenBuf[:])
		body.Write(a)
	}

	var frame bytes.Buffer
	var frameLen [4]byte
	binary.LittleEndian.PutUint32(frameLen[:], uint32(body.Len()))
	frame.Write(frameLen[:])
	frame.Write(body.Bytes())
	return frame.Bytes()
}

func TestReadCommandRoundTrip(t *testing.T) {
	raw := encodeFrame(CmdGet, []byte("mykey"))
	r := bufio.NewReader(bytes.NewReader(raw))

	cmd, err := ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, CmdGet, cmd.Type)
	require.Equal(t, 1, cmd.Arity())
	assert.Equal(t, "mykey", string(cmd.Arg(0)))
}

func TestReadCommandMultipleArgs(t *testing.T) {
	raw := encodeFrame(CmdSetString, []byte("k"), []byte("v"))
	r := bufio.NewReader(bytes.NewReader(raw))

	cmd, err := ReadCommand(r)
	require.NoError(t, err)
	require.Equal(t, 2, cmd.Arity())
	assert.Equal(t, "k", string(cmd.Arg(0)))
	assert.Equal(t, "v", string(cmd.Arg(1)))
}

func TestReadCommandEOFBetweenFrames(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(nil))
	_, err := ReadCommand(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadCommandTruncatedFrameBody(t *testing.T) {
	raw := encodeFrame(CmdGet, []byte("key"))
	// Chop off the last byte so the stream ends before the declared
	// frame length has been read.
	raw = raw[:len(raw)-1]
	r := bufio.NewReader(bytes.NewReader(raw))

	_, err := ReadCommand(r)
	require.Error(t, err)
	var shortFrame *ErrShortFrame
	assert.ErrorAs(t, err, &shortFrame)
}

func TestReadCommandOversizedFrameRejected(t *testing.T) {
	var frameLen [4]byte
	binary.LittleEndian.PutUint32(frameLen[:], MaxFrameSize+1)
	r := bufio.NewReader(bytes.NewReader(frameLen[:]))

	_, err := ReadCommand(r)
	var shortFrame *ErrShortFrame
	assert.ErrorAs(t, err, &shortFrame)
}

func TestWriteOKAndWriteErr(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, WriteOK(w, EncodeString([]byte("fine"))))
	require.NoError(t, w.Flush())
	assert.Equal(t, byte(StatusOK), buf.Bytes()[0])

	buf.Reset()
	require.NoError(t, WriteErr(w, "boom"))
	require.NoError(t, w.Flush())
	assert.Equal(t, byte(StatusErr), buf.Bytes()[0])

	msg, err := DecodeString(buf.Bytes()[1:])
	require.NoError(t, err)
	assert.Equal(t, "boom", string(msg))
}
