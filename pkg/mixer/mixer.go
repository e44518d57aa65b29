package mixer

import (
	"image"

	"github.com/disintegration/gift"
)

// New builds the effect chain applied to source images before they are
// scaled onto the canvas.
func New(opts ...Option) *Mixer {
	m := &Mixer{
		g: gift.New(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

type Mixer struct {
	g     *gift.GIFT
	names []string
}

// Effects lists the applied effects in order.
func (m *Mixer) Effects() []string {
	return m.names
}

// Apply returns src with every effect applied, or src itself when there are
// none.
func (m *Mixer) Apply(src image.Image) image.Image {
	if m == nil || len(m.g.Filters) == 0 {
		return src
	}

	dst := image.NewNRGBA(m.g.Bounds(src.Bounds()))
	m.g.Draw(dst, src)
	return dst
}

func (m *Mixer) add(name string, f gift.Filter) {
	m.g.Add(f)
	m.names = append(m.names, name)
}
