package source

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/mixer"
)

func NewConverter(canvas bitmap.Canvas, mx *mixer.Mixer, opts ...Option) *Converter {
	c := &Converter{
		canvas: canvas,
		mixer:  mx,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Converter turns source frames into row codes for the canvas.
type Converter struct {
	canvas bitmap.Canvas
	mixer  *mixer.Mixer
	fill   bool
	dither bool
}

type Option func(c *Converter)

// WithFill crops to the canvas ratio instead of stretching.
func WithFill(fill bool) Option {
	return func(c *Converter) {
		c.fill = fill
	}
}

func WithDither(dither bool) Option {
	return func(c *Converter) {
		c.dither = dither
	}
}

// Mono scales img onto the canvas and reduces it to 1-bit.
func (c *Converter) Mono(img image.Image) *bitmap.Mono {
	img = c.mixer.Apply(img)

	// nearest neighbour keeps hard edges when thresholding
	filter := imaging.NearestNeighbor
	if c.dither {
		filter = imaging.Lanczos
	}

	var sized image.Image
	if c.fill {
		sized = imaging.Fill(img, c.canvas.Width, c.canvas.Height, imaging.Center, filter)
	} else {
		sized = imaging.Resize(img, c.canvas.Width, c.canvas.Height, filter)
	}

	if c.dither {
		return bitmap.Dither(sized)
	}
	return bitmap.Threshold(sized)
}

func (c *Converter) Encode(img image.Image) ([]string, error) {
	return bitmap.Encode(c.Mono(img), c.canvas)
}

// EncodeAll encodes every frame up front, reporting progress to w.
func (c *Converter) EncodeAll(frames []image.Image, w io.Writer) ([][]string, error) {
	bar := progressbar.NewOptions(
		len(frames),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Process frames"),
	)

	out := make([][]string, 0, len(frames))
	for i, frame := range frames {
		rows, err := c.Encode(frame)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		out = append(out, rows)
		_ = bar.Add(1)
	}

	return out, nil
}
