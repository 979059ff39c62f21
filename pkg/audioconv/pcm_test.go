package audioconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownmixAverages(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(stereo, 2)
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.5, mono[0], 1e-6)
	assert.InDelta(t, 0.5, mono[1], 1e-6)
	assert.InDelta(t, 0.0, mono[2], 1e-6)
}

func TestResampleHalvesRate(t *testing.T) {
	in := make([]float32, 320) // 10ms at 32 kHz
	out := resample(in, 32000, 16000)
	assert.Len(t, out, 160)
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	assert.Equal(t, in, resample(in, 16000, 16000))
}

func TestResampleInterpolates(t *testing.T) {
	in := []float32{0, 1}
	out := resample(in, 16000, 32000)
	require.Len(t, out, 4)
	assert.InDelta(t, 0.0, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[1], 1e-6)
}

func TestMono16kPassThrough(t *testing.T) {
	in := []float32{0.1, -0.1}
	assert.Equal(t, in, Mono16k(in, 1, 16000))
}

func TestInt16ToFloat32Range(t *testing.T) {
	out := int16ToFloat32([]int16{-32768, 0, 16384})
	require.Len(t, out, 3)
	assert.InDelta(t, -1.0, out[0], 1e-6)
	assert.InDelta(t, 0.0, out[1], 1e-6)
	assert.InDelta(t, 0.5, out[2], 1e-6)
}
