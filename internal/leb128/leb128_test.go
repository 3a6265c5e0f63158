package leb128_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/leb128"
)

func TestLoadUint32(t *testing.T) {
	// 624485 encodes to E5 8E 26 per the LEB128 spec example.
	v, n, err := leb128.LoadUint32([]byte{0xe5, 0x8e, 0x26}, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(624485), v)
	require.Equal(t, uint64(3), n)
}

func TestLoadInt32_Negative(t *testing.T) {
	// -624485 encodes to 9B F1 59 per the LEB128 spec example.
	v, n, err := leb128.LoadInt32([]byte{0x9b, 0xf1, 0x59}, 0)
	require.NoError(t, err)
	require.Equal(t, int32(-624485), v)
	require.Equal(t, uint64(3), n)
}

func TestLoadInt32_SmallValues(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 63, -64, 64, -65} {
		buf := encodeSignedForTest(int64(v))
		got, _, err := leb128.LoadInt32(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLoadUint64_OffsetIntoBuffer(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xe5, 0x8e, 0x26}
	v, n, err := leb128.LoadUint64(buf, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(624485), v)
	require.Equal(t, uint64(3), n)
}

func TestLoadInt33AsInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 20, -(1 << 20)} {
		buf := encodeSignedForTest(v)
		got, _, err := leb128.LoadInt33AsInt64(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLoad_TruncatedBuffer(t *testing.T) {
	_, _, err := leb128.LoadUint32([]byte{0x80}, 0)
	require.Error(t, err)
}

// encodeSignedForTest is a reference LEB128 signed encoder used only to
// build fixtures for round-trip assertions above.
func encodeSignedForTest(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
