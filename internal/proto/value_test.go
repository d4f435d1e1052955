package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt(t *testing.T) {
	buf := EncodeInt(-42)
	n, err := DecodeInt(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), n)
}

func TestEncodeDecodeFloat(t *testing.T) {
	buf := EncodeFloat(3.5)
	f, err := DecodeFloat(buf)
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f)
}

func TestEncodeDecodeString(t *testing.T) {
	buf := EncodeString([]byte("hello"))
	s, err := DecodeString(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(s))
}

func TestEncodeStringEmpty(t *testing.T) {
	buf := EncodeString(nil)
	s, err := DecodeString(buf)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestEncodeLong(t *testing.T) {
	buf := EncodeLong(1 << 40)
	require.Len(t, buf, 9)
	assert.Equal(t, byte(TagLong), buf[0])
}

func TestListContainerRoundTrip(t *testing.T) {
	elements := [][]byte{
		EncodeString([]byte("a")),
		EncodeString([]byte("bb")),
		EncodeString([]byte("")),
	}
	container := EncodeListContainer(elements)
	assert.Equal(t, byte(TagList), container[0])

	decoded, err := DecodeListContainer(container)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	for i, enc := range decoded {
		s, err := DecodeString(enc)
		require.NoError(t, err)
		orig, _ := DecodeString(elements[i])
		assert.Equal(t, orig, s)
	}
}

func TestEmptyListContainer(t *testing.T) {
	container := EncodeListContainer(nil)
	assert.Equal(t, []byte{byte(TagList)}, container)

	decoded, err := DecodeListContainer(container)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestLEHelpers(t *testing.T) {
	buf := EncodeInt(7)
	n, err := LEInt32(buf[1:])
	require.NoError(t, err)
	assert.Equal(t, int32(7), n)

	_, err = LEUint32([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = LEUint64([]byte{1, 2, 3})
	assert.Error(t, err)
}
