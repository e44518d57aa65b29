package bitmap

import (
	"encoding/hex"
	"image"
	"strings"

	"github.com/pkg/errors"
)

const hexDigits = "0123456789ABCDEF"

// Encode packs every row of m into its row code. The size of m must match
// the canvas.
func Encode(m *Mono, canvas Canvas) ([]string, error) {
	size := m.Bounds().Size()
	if size.X != canvas.Width || size.Y != canvas.Height {
		return nil, errors.Wrapf(ErrSizeMismatch, "got %dx%d, want %dx%d", size.X, size.Y, canvas.Width, canvas.Height)
	}

	rows := make([]string, size.Y)
	for y := range rows {
		rows[y] = EncodeRow(m.Row(y), canvas.Width)
	}

	return rows, nil
}

// EncodeRow packs the first width pixels into little endian bytes, bit i set
// when pixel i is non-zero, and renders them as uppercase hex with the two
// digits of every byte swapped.
func EncodeRow(pixels []uint8, width int) string {
	packed := make([]byte, RowBytes(width))
	for i := 0; i < width && i < len(pixels); i++ {
		if pixels[i] != 0 {
			packed[i/8] |= 1 << (i % 8)
		}
	}

	var sb strings.Builder
	sb.Grow(len(packed) * 2)
	for _, b := range packed {
		sb.WriteByte(hexDigits[b&0x0F])
		sb.WriteByte(hexDigits[b>>4])
	}

	return sb.String()
}

// DecodeRow reverses EncodeRow, returning width pixels of 0 or 1.
func DecodeRow(code string, width int) ([]uint8, error) {
	if len(code)%2 != 0 {
		return nil, errors.Errorf("odd row code length %d", len(code))
	}

	swapped := []byte(code)
	for i := 0; i < len(swapped); i += 2 {
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
	}

	packed, err := hex.DecodeString(string(swapped))
	if err != nil {
		return nil, errors.Wrap(err, "decode row code")
	}

	pixels := make([]uint8, width)
	for i := range pixels {
		if i/8 < len(packed) {
			pixels[i] = (packed[i/8] >> (i % 8)) & 1
		}
	}

	return pixels, nil
}

// Decode rebuilds a Mono from row codes, the inverse of Encode.
func Decode(rows []string, width int) (*Mono, error) {
	m := NewMono(image.Rect(0, 0, width, len(rows)))
	for y, code := range rows {
		pixels, err := DecodeRow(code, width)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", y)
		}
		copy(m.Row(y), pixels)
	}
	return m, nil
}
