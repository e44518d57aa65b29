package player

import (
	"time"
)

type Option func(p *Player)

func WithDelay(d time.Duration) Option {
	return func(p *Player) {
		p.delay = d
	}
}

// WithRealign realigns the display framing before the first upload.
func WithRealign(realign bool) Option {
	return func(p *Player) {
		p.realign = realign
	}
}

// WithLoops stops animations after n passes, zero loops forever.
func WithLoops(n int) Option {
	return func(p *Player) {
		p.loops = n
	}
}

func withClock(now func() time.Time) Option {
	return func(p *Player) {
		p.now = now
	}
}
