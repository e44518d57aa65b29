package bitmap

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	off = color.Gray{Y: 0x00}
	on  = color.Gray{Y: 0xFF}
)

func NewMono(r image.Rectangle) *Mono {
	return &Mono{
		pixels: make([]uint8, r.Dx()*r.Dy()),
		stride: r.Dx(),
		bounds: r,
	}
}

// Mono is a 1-bit canvas. It implements the draw.Image interface, each pixel
// is stored as one byte holding 0 or 1.
type Mono struct {
	pixels []uint8
	stride int
	bounds image.Rectangle
}

// Bounds implements the image.Image (and draw.Image) interface.
func (m *Mono) Bounds() image.Rectangle {
	return m.bounds
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (m *Mono) ColorModel() color.Model {
	return color.ModelFunc(monoModel)
}

// At implements the image.Image (and draw.Image) interface.
func (m *Mono) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.bounds)) {
		return off
	}
	if m.pixels[m.offset(x, y)] != 0 {
		return on
	}
	return off
}

// Set implements the draw.Image interface. Colors with a luminance of at
// least 128 light the pixel.
func (m *Mono) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(m.bounds)) {
		return
	}
	m.pixels[m.offset(x, y)] = lit(c)
}

// Row returns the pixels of row y, relative to the top of the bounds.
func (m *Mono) Row(y int) []uint8 {
	i := y * m.stride
	return m.pixels[i : i+m.stride]
}

func (m *Mono) offset(x, y int) int {
	return (y-m.bounds.Min.Y)*m.stride + (x - m.bounds.Min.X)
}

// lit ignores alpha. Non-premultiplied colors keep the color stored under a
// transparent pixel, premultiplied ones can only read as black there.
func lit(c color.Color) uint8 {
	switch v := c.(type) {
	case color.NRGBA:
		v.A = 0xFF
		c = v
	case color.NRGBA64:
		v.A = 0xFFFF
		c = v
	}
	if color.GrayModel.Convert(c).(color.Gray).Y >= 0x80 {
		return 1
	}
	return 0
}

func monoModel(c color.Color) color.Color {
	if lit(c) == 1 {
		return on
	}
	return off
}

// Threshold converts src to a Mono of the same bounds without dithering.
func Threshold(src image.Image) *Mono {
	b := src.Bounds()
	dst := NewMono(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}

	return dst
}

// Dither converts src to a Mono using Floyd-Steinberg error diffusion.
func Dither(src image.Image) *Mono {
	b := src.Bounds()
	p := image.NewPaletted(b, color.Palette{off, on})
	draw.FloydSteinberg.Draw(p, b, src, b.Min)

	dst := NewMono(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.pixels[dst.offset(x, y)] = p.ColorIndexAt(x, y)
		}
	}

	return dst
}
