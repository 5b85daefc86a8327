package pacer

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_DelayClasses(t *testing.T) {
	p := NewPacer(nil, time.Second)

	assert.Equal(t, time.Second, p.Delay(KindCreate))
	assert.Equal(t, 1500*time.Millisecond, p.Delay(KindEmoji))
	assert.Equal(t, 500*time.Millisecond, p.Delay(KindDelete))
}

func TestPacer_NegativeBaseClampedToZero(t *testing.T) {
	p := NewPacer(nil, -time.Second)
	assert.Equal(t, time.Duration(0), p.Delay(KindEmoji))
}

func TestPacer_ZeroDelayReturnsImmediately(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	p := NewPacer(clk, 0)

	done := make(chan struct{})
	go func() {
		p.Wait(KindCreate)
		p.Wait(KindEmoji)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with zero delay")
	}
}

func TestPacer_WaitBlocksUntilClockAdvances(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	p := NewPacer(clk, time.Second)

	done := make(chan struct{})
	go func() {
		p.Wait(KindEmoji)
		close(done)
	}()

	// Advancing by the create delay is not enough for the emoji class.
	require.NoError(t, clk.WaitAdvance(time.Second, time.Second, 1))
	select {
	case <-done:
		t.Fatal("Wait returned before the emoji delay elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	clk.Advance(500 * time.Millisecond)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the emoji delay")
	}
}
