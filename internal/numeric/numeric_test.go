package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/numeric"
)

func TestEncodeDecodeFloatRoundTrip(t *testing.T) {
	require.Equal(t, float32(3.5), numeric.DecodeF32(numeric.EncodeF32(3.5)))
	require.Equal(t, -0.0, numeric.DecodeF64(numeric.EncodeF64(math.Copysign(0, -1))))
}

func TestShiftMask(t *testing.T) {
	// i32.shl with shift count 32 behaves as shift-by-0 once masked.
	require.Equal(t, uint32(0), numeric.ShiftMask32(32))
	require.Equal(t, uint32(31), numeric.ShiftMask32(63))
	require.Equal(t, uint64(0), numeric.ShiftMask64(64))
}

func TestTruncBounds_I32TruncSF32(t *testing.T) {
	b := numeric.TruncBoundsI32SFromF32
	// i32.trunc_s_f32 traps on 2147483648.0f but not on 2147483647.0f.
	require.True(t, float64(2147483648.0) >= b.Max)
	require.False(t, float64(2147483647.0) >= b.Max)
}

func TestSatInt32_NaNYieldsZero(t *testing.T) {
	require.Equal(t, int32(0), numeric.SatInt32(math.NaN(), math.MinInt32, math.MaxInt32))
}

func TestSatInt32_Saturates(t *testing.T) {
	require.Equal(t, int32(math.MaxInt32), numeric.SatInt32(1e20, math.MinInt32, math.MaxInt32))
	require.Equal(t, int32(math.MinInt32), numeric.SatInt32(-1e20, math.MinInt32, math.MaxInt32))
}

func TestParseHexFloat_Example(t *testing.T) {
	bits, err := numeric.ParseHexFloat("0x1.8p+1")
	require.NoError(t, err)
	require.Equal(t, float64(3.0), math.Float64frombits(bits))
}

func TestParseHexFloat_Infinity(t *testing.T) {
	bits, err := numeric.ParseHexFloat("infinity")
	require.NoError(t, err)
	require.True(t, math.IsInf(math.Float64frombits(bits), 1))

	bits, err = numeric.ParseHexFloat("-infinity")
	require.NoError(t, err)
	require.True(t, math.IsInf(math.Float64frombits(bits), -1))
}

func TestParseHexFloat_NaNWithPayload(t *testing.T) {
	bits, err := numeric.ParseHexFloat("nan(0x4000000000000)")
	require.NoError(t, err)
	require.True(t, math.IsNaN(math.Float64frombits(bits)))
}

func TestHexFloatRoundTrip(t *testing.T) {
	cases := []uint64{
		math.Float64bits(3.0),
		math.Float64bits(0),
		math.Float64bits(math.Copysign(0, -1)),
		math.Float64bits(math.Inf(1)),
		math.Float64bits(math.Inf(-1)),
		0x7ff8000000000000, // canonical NaN
		math.Float64bits(1.0 / 3.0),
		1, // smallest denormal
	}
	for _, want := range cases {
		printed := numeric.PrintHexFloat(want)
		got, err := numeric.ParseHexFloat(printed)
		require.NoError(t, err, printed)
		if math.IsNaN(math.Float64frombits(want)) {
			require.True(t, math.IsNaN(math.Float64frombits(got)))
			continue
		}
		require.Equal(t, want, got, "round trip of %s", printed)
	}
}
