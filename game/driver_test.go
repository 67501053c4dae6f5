package game

import (
	"testing"

	"github.com/pthm-cable/warpath/config"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	return NewDriver(newTestSession(t, openArena(t), 3, 0, 2))
}

func TestDriverIdleRunsNothing(t *testing.T) {
	d := newTestDriver(t)

	if n := d.Advance(1.0); n != 0 {
		t.Errorf("idle driver ran %d ticks", n)
	}
	if d.Session().TickCount() != 0 {
		t.Error("session advanced while idle")
	}
}

func TestDriverAccumulator(t *testing.T) {
	d := newTestDriver(t)
	d.Start()
	dt := config.Cfg().Physics.DT

	if n := d.Advance(3.5 * dt); n != 3 {
		t.Errorf("3.5dt frame ran %d ticks, want 3", n)
	}
	// The 0.5dt remainder carries over.
	if n := d.Advance(0.6 * dt); n != 1 {
		t.Errorf("carried remainder + 0.6dt ran %d ticks, want 1", n)
	}
	if d.Session().TickCount() != 4 {
		t.Errorf("tick count = %d, want 4", d.Session().TickCount())
	}
}

func TestDriverClampsFrameDebt(t *testing.T) {
	d := newTestDriver(t)
	d.Start()
	dt := config.Cfg().Physics.DT

	// A multi-second stall must not replay as a burst of hundreds of ticks.
	n := d.Advance(10.0)
	if float64(n)*dt > maxFrameDebt {
		t.Errorf("10s stall ran %d ticks (%.2fs of sim time)", n, float64(n)*dt)
	}
}

func TestDriverPauseAndStep(t *testing.T) {
	d := newTestDriver(t)
	d.Start()
	d.Advance(config.Cfg().Physics.DT)
	base := d.Session().TickCount()

	d.Pause()
	if d.State() != StatePaused {
		t.Fatalf("state = %v, want paused", d.State())
	}
	if n := d.Advance(1.0); n != 0 {
		t.Errorf("paused driver ran %d ticks", n)
	}
	if d.Session().TickCount() != base {
		t.Error("session advanced while paused")
	}

	d.Step()
	if d.Session().TickCount() != base+1 {
		t.Error("Step did not run exactly one tick")
	}

	d.Resume()
	if d.State() != StateRunning {
		t.Errorf("state = %v after resume, want running", d.State())
	}
	if n := d.Advance(config.Cfg().Physics.DT); n != 1 {
		t.Errorf("resumed driver ran %d ticks, want 1", n)
	}
}

func TestDriverStepIgnoredWhileRunning(t *testing.T) {
	d := newTestDriver(t)
	d.Start()
	base := d.Session().TickCount()

	d.Step()
	if d.Session().TickCount() != base {
		t.Error("Step ran a tick outside of pause")
	}
}
