package game

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/warpath/components"
)

// inputRecord is one player's input on one tick, the unit of the replay
// journal. Every player is recorded every tick, so replaying does not
// depend on how long the UI held an input.
type inputRecord struct {
	Tick         uint64  `csv:"tick"`
	Player       int     `csv:"player"`
	Steer        float32 `csv:"steer"`
	Throttle     float32 `csv:"throttle"`
	Fire         bool    `csv:"fire"`
	WeaponSelect int8    `csv:"weapon_select"`
	PrevWeapon   bool    `csv:"prev_weapon"`
	NextWeapon   bool    `csv:"next_weapon"`
	SelfDestruct bool    `csv:"self_destruct"`
}

// Journal records player inputs to a CSV file. Together with the session
// seed it reproduces a match exactly.
type Journal struct {
	file          *os.File
	buf           []inputRecord
	headerWritten bool
}

// NewJournal creates a journal writing to path.
func NewJournal(path string) (*Journal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating input journal: %w", err)
	}
	return &Journal{file: f}, nil
}

// Record buffers one player's input for one tick.
func (j *Journal) Record(tick uint64, player int, in components.Input) {
	j.buf = append(j.buf, inputRecord{
		Tick:         tick,
		Player:       player,
		Steer:        in.Steer,
		Throttle:     in.Throttle,
		Fire:         in.Fire,
		WeaponSelect: in.WeaponSelect,
		PrevWeapon:   in.PrevWeapon,
		NextWeapon:   in.NextWeapon,
		SelfDestruct: in.SelfDestruct,
	})
}

// Flush writes buffered records to the file.
func (j *Journal) Flush() error {
	if len(j.buf) == 0 {
		return nil
	}

	var err error
	if !j.headerWritten {
		err = gocsv.Marshal(j.buf, j.file)
		j.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(j.buf, j.file)
	}
	if err != nil {
		return fmt.Errorf("writing input journal: %w", err)
	}
	j.buf = j.buf[:0]
	return nil
}

// Close flushes and closes the journal.
func (j *Journal) Close() error {
	flushErr := j.Flush()
	closeErr := j.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Replay holds a loaded input journal, indexed by tick.
type Replay struct {
	byTick   map[uint64][]inputRecord
	lastTick uint64
}

// LoadReplay reads an input journal written by Journal.
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input journal: %w", err)
	}
	defer f.Close()

	var records []inputRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("parsing input journal: %w", err)
	}

	r := &Replay{byTick: make(map[uint64][]inputRecord)}
	for _, rec := range records {
		r.byTick[rec.Tick] = append(r.byTick[rec.Tick], rec)
		if rec.Tick > r.lastTick {
			r.lastTick = rec.Tick
		}
	}
	return r, nil
}

// LastTick returns the highest tick recorded in the journal.
func (r *Replay) LastTick() uint64 {
	return r.lastTick
}

// Apply feeds the journal's inputs for the given tick into the session.
// Call it before Session.Tick with the session's current tick count.
func (r *Replay) Apply(s *Session, tick uint64) {
	for _, rec := range r.byTick[tick] {
		s.SetPlayerInput(rec.Player, components.Input{
			Steer:        rec.Steer,
			Throttle:     rec.Throttle,
			Fire:         rec.Fire,
			WeaponSelect: rec.WeaponSelect,
			PrevWeapon:   rec.PrevWeapon,
			NextWeapon:   rec.NextWeapon,
			SelfDestruct: rec.SelfDestruct,
		})
	}
}
