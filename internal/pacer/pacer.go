package pacer

import (
	"time"

	"github.com/juju/clock"
)

// Kind selects the delay class of the call that just completed.
type Kind int

const (
	KindCreate Kind = iota
	KindEmoji
	KindDelete
)

type PacerInterface interface {
	Wait(kind Kind)
	Delay(kind Kind) time.Duration
}

// Pacer keeps mutating calls spaced out so the sustained rate stays under
// the remote abuse threshold.
type Pacer struct {
	clock clock.Clock
	base  time.Duration
}

func NewPacer(clk clock.Clock, base time.Duration) PacerInterface {
	if clk == nil {
		clk = clock.WallClock
	}
	if base < 0 {
		base = 0
	}
	return &Pacer{clock: clk, base: base}
}

func (p *Pacer) Delay(kind Kind) time.Duration {
	switch kind {
	case KindEmoji:
		return p.base * 3 / 2
	case KindDelete:
		return p.base / 2
	default:
		return p.base
	}
}

func (p *Pacer) Wait(kind Kind) {
	d := p.Delay(kind)
	if d <= 0 {
		return
	}
	<-p.clock.After(d)
}
