package game

import "github.com/pthm-cable/warpath/config"

// State is the driver's run state.
type State uint8

const (
	// StateIdle is the state before the first Start; no ticks run.
	StateIdle State = iota
	// StateRunning advances the simulation in real time.
	StateRunning
	// StatePaused holds the simulation; Step runs single ticks.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// maxFrameDebt caps the accumulated real time per Advance call, so a
// long stall (debugger, window drag) causes a slowdown instead of a
// catch-up burst of hundreds of ticks.
const maxFrameDebt = 0.25

// Driver turns variable frame time into whole fixed ticks. Rendering
// happens between Advance calls against committed state; the simulation
// itself never sees a partial step.
type Driver struct {
	session *Session
	state   State
	acc     float64
}

// NewDriver creates an idle driver for the session.
func NewDriver(session *Session) *Driver {
	return &Driver{session: session}
}

// Session returns the driven session.
func (d *Driver) Session() *Session {
	return d.session
}

// State returns the current run state.
func (d *Driver) State() State {
	return d.state
}

// Start begins running from idle. No-op in any other state.
func (d *Driver) Start() {
	if d.state == StateIdle {
		d.state = StateRunning
		d.acc = 0
	}
}

// Pause holds a running simulation.
func (d *Driver) Pause() {
	if d.state == StateRunning {
		d.state = StatePaused
		d.acc = 0
	}
}

// Resume continues a paused simulation.
func (d *Driver) Resume() {
	if d.state == StatePaused {
		d.state = StateRunning
	}
}

// TogglePause flips between running and paused.
func (d *Driver) TogglePause() {
	switch d.state {
	case StateRunning:
		d.Pause()
	case StatePaused:
		d.Resume()
	}
}

// Stop returns the driver to idle, dropping any accumulated time.
func (d *Driver) Stop() {
	d.state = StateIdle
	d.acc = 0
}

// Step runs exactly one tick while paused, for frame-by-frame debugging.
func (d *Driver) Step() {
	if d.state == StatePaused {
		d.session.Tick()
	}
}

// Advance feeds frameDt seconds of real time into the accumulator and
// runs as many whole ticks as it covers, returning the number run. The
// remainder is carried to the next call.
func (d *Driver) Advance(frameDt float64) int {
	if d.state != StateRunning {
		return 0
	}

	d.acc += frameDt
	if d.acc > maxFrameDebt {
		d.acc = maxFrameDebt
	}

	dt := config.Cfg().Physics.DT
	n := 0
	for d.acc >= dt {
		d.session.Tick()
		d.acc -= dt
		n++
	}
	return n
}
