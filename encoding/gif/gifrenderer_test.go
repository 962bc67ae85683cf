package gif

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	epoch int
	w     [][]float32
}

func (s fakeState) Name() string         { return "test" }
func (s fakeState) Layer() int           { return 1 }
func (s fakeState) Epoch() int           { return s.epoch }
func (s fakeState) Energy() float32      { return -1.5 }
func (s fakeState) Weights() [][]float32 { return s.w }

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewGifEncoder(&buf, 300, 240)

	w := [][]float32{
		{0.5, -0.25, 0.1, 0},
		{-0.4, 0.2, 0.7, -0.1},
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, enc.Encode(fakeState{epoch: i, w: w}))
	}
	require.NoError(t, enc.Flush())

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, 240, g.Config.Width)
	assert.Equal(t, 300, g.Config.Height)
	for _, im := range g.Image {
		assert.Equal(t, 240, im.Bounds().Dx())
		assert.Equal(t, 300, im.Bounds().Dy())
	}
}

func TestEncoderNoFrames(t *testing.T) {
	var buf bytes.Buffer
	enc := NewGifEncoder(&buf, 10, 10)
	assert.Error(t, enc.Flush())
	assert.Zero(t, buf.Len())
}

func TestEncoderZeroWeights(t *testing.T) {
	var buf bytes.Buffer
	enc := NewGifEncoder(&buf, 200, 200)
	require.NoError(t, enc.Encode(fakeState{w: [][]float32{{0, 0}, {0, 0}}}))
	require.NoError(t, enc.Encode(fakeState{epoch: 1}))
	require.NoError(t, enc.Flush())
}
