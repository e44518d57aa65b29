package virtual

import (
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"uartscreen/pkg/bitmap"
)

func TestDumperUpload(t *testing.T) {
	fs := afero.NewMemMapFs()
	canvas := bitmap.Canvas{Width: 8, Height: 2, Columns: 4}

	d, err := newDumper(fs, zaptest.NewLogger(t), canvas)
	require.NoError(t, err)

	require.NoError(t, d.Realign(context.Background()))
	require.NoError(t, d.Upload([]string{"1800", "8000"}))
	require.NoError(t, d.Upload([]string{"0000", "0000"}))

	bs, err := afero.ReadFile(fs, d.Session()+"/000000.txt")
	require.NoError(t, err)
	require.Equal(t, "#1800+8000+", string(bs))

	f, err := fs.Open(d.Session() + "/000000.png")
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 2), img.Bounds())

	lit := func(x, y int) bool {
		r, _, _, _ := img.At(x, y).RGBA()
		return r > 0
	}
	require.True(t, lit(0, 0))
	require.True(t, lit(7, 0))
	require.True(t, lit(3, 1))
	require.False(t, lit(1, 0))

	exists, err := afero.Exists(fs, d.Session()+"/000001.txt")
	require.NoError(t, err)
	require.True(t, exists)

	out, err := d.Drain()
	require.NoError(t, err)
	require.Empty(t, out)
	require.NoError(t, d.Close())
}

func TestDumperOddColumns(t *testing.T) {
	fs := afero.NewMemMapFs()
	canvas := bitmap.Canvas{Width: 300, Height: 2, Columns: 73}

	d, err := newDumper(fs, zaptest.NewLogger(t), canvas)
	require.NoError(t, err)

	zero := bitmap.EncodeRow(nil, canvas.Width)
	lit := make([]uint8, canvas.Width)
	lit[0], lit[293] = 1, 1
	require.NoError(t, d.Upload([]string{zero, bitmap.EncodeRow(lit, canvas.Width)}))

	bs, err := afero.ReadFile(fs, d.Session()+"/000000.txt")
	require.NoError(t, err)
	require.Len(t, bs, 1+2*(73+1))

	f, err := fs.Open(d.Session() + "/000000.png")
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 300, 2), img.Bounds())

	r, _, _, _ := img.At(0, 1).RGBA()
	require.NotZero(t, r)
	// the last pixel lives in the cut off characters
	r, _, _, _ = img.At(293, 1).RGBA()
	require.Zero(t, r)
}

func TestDumperInvalidCanvas(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), zaptest.NewLogger(t), bitmap.Canvas{})
	require.Error(t, err)
}
