package mixer

import (
	"github.com/disintegration/gift"
	"github.com/pkg/errors"
)

type Option func(m *Mixer)

func WithInvert() Option {
	return func(m *Mixer) {
		m.add("invert", gift.Invert())
	}
}

func WithMirror() Option {
	return func(m *Mixer) {
		m.add("mirror", gift.FlipHorizontal())
	}
}

func WithFlip() Option {
	return func(m *Mixer) {
		m.add("flip", gift.FlipVertical())
	}
}

// WithContrast changes the contrast by percentage, in range (-100, 100).
func WithContrast(percentage float32) Option {
	return func(m *Mixer) {
		m.add("contrast", gift.Contrast(percentage))
	}
}

// WithRotate rotates counter-clockwise by a multiple of 90 degrees.
func WithRotate(degrees int) Option {
	return func(m *Mixer) {
		switch degrees % 360 {
		case 90, -270:
			m.add("rotate90", gift.Rotate90())
		case 180, -180:
			m.add("rotate180", gift.Rotate180())
		case 270, -90:
			m.add("rotate270", gift.Rotate270())
		}
	}
}

// CheckRotate rejects angles WithRotate cannot apply.
func CheckRotate(degrees int) error {
	if degrees%90 != 0 {
		return errors.Errorf("rotation %d is not a multiple of 90", degrees)
	}
	return nil
}
