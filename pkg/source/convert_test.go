package source

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/mixer"
)

// halves is white on the left half, black on the right.
func halves(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetGray(x, y, color.Gray{Y: 0xFF})
		}
	}
	return img
}

func TestConverterMono(t *testing.T) {
	canvas := bitmap.Canvas{Width: 8, Height: 4, Columns: 8}
	c := NewConverter(canvas, mixer.New())

	m := c.Mono(halves(32, 16))
	require.Equal(t, image.Rect(0, 0, 8, 4), m.Bounds())
	require.Equal(t, []uint8{1, 1, 1, 1, 0, 0, 0, 0}, m.Row(0))

	rows, err := c.Encode(halves(32, 16))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "F000", rows[0])
}

func TestConverterInvert(t *testing.T) {
	canvas := bitmap.Canvas{Width: 8, Height: 4, Columns: 8}
	c := NewConverter(canvas, mixer.New(mixer.WithInvert()))

	require.Equal(t, []uint8{0, 0, 0, 0, 1, 1, 1, 1}, c.Mono(halves(32, 16)).Row(3))
}

func TestConverterFill(t *testing.T) {
	canvas := bitmap.Canvas{Width: 4, Height: 4, Columns: 4}
	c := NewConverter(canvas, nil, WithFill(true), WithDither(true))

	m := c.Mono(halves(64, 16))
	require.Equal(t, image.Rect(0, 0, 4, 4), m.Bounds())
}

func TestEncodeAll(t *testing.T) {
	canvas := bitmap.Canvas{Width: 8, Height: 2, Columns: 8}
	c := NewConverter(canvas, mixer.New())

	frames, err := c.EncodeAll([]image.Image{halves(8, 2), image.NewGray(image.Rect(0, 0, 8, 2))}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"F000", "F000"}, {"0000", "0000"}}, frames)
}

func TestEncodeAllEmptyImage(t *testing.T) {
	canvas := bitmap.Canvas{Width: 8, Height: 2, Columns: 8}
	c := NewConverter(canvas, mixer.New())

	_, err := c.EncodeAll([]image.Image{image.NewGray(image.Rectangle{})}, io.Discard)
	require.Error(t, err)
	require.True(t, errors.Is(err, bitmap.ErrSizeMismatch))
}

func TestConverterTransparentWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x00})
		}
	}

	canvas := bitmap.Canvas{Width: 8, Height: 2, Columns: 8}
	m := NewConverter(canvas, mixer.New()).Mono(img)
	require.Equal(t, []uint8{1, 1, 1, 1, 0, 0, 0, 0}, m.Row(1))
}
