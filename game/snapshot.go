package game

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/bot"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
	"github.com/pthm-cable/warpath/rng"
	"github.com/pthm-cable/warpath/systems"
	"github.com/pthm-cable/warpath/telemetry"
)

// Session snapshot format: a header with the seed, tick, player bindings
// and every rng stream's state, followed by the entity store blob. A
// restored session resumes bit-identically, bots mid-thought included.
const (
	sessionMagic   uint32 = 0x57505353 // "WPSS"
	sessionVersion uint16 = 1
)

// Save writes the complete session state.
func (s *Session) Save(out io.Writer) error {
	put := func(v any) error {
		return binary.Write(out, binary.LittleEndian, v)
	}

	if err := put(sessionMagic); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	if err := put(sessionVersion); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	if err := put(s.seed); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	if err := put(s.tick); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	streams := s.streams.All()
	if err := put(uint8(len(streams))); err != nil {
		return fmt.Errorf("writing stream count: %w", err)
	}
	for _, st := range streams {
		state, err := st.MarshalState()
		if err != nil {
			return fmt.Errorf("marshaling stream %q: %w", st.Name(), err)
		}
		if err := put(uint16(len(state))); err != nil {
			return fmt.Errorf("writing stream %q: %w", st.Name(), err)
		}
		if _, err := out.Write(state); err != nil {
			return fmt.Errorf("writing stream %q: %w", st.Name(), err)
		}
	}

	if err := put(uint8(len(s.players))); err != nil {
		return fmt.Errorf("writing player bindings: %w", err)
	}
	for _, h := range s.players {
		if err := put(h.Index); err != nil {
			return fmt.Errorf("writing player bindings: %w", err)
		}
		if err := put(h.Gen); err != nil {
			return fmt.Errorf("writing player bindings: %w", err)
		}
	}

	return s.store.EncodeTo(out)
}

// Load restores a session saved by Save onto the given arena. The arena
// must be the same map the snapshot was taken on; the snapshot does not
// carry terrain.
func Load(in io.Reader, grid *arena.Grid) (*Session, error) {
	cfg := config.Cfg()
	get := func(v any) error {
		return binary.Read(in, binary.LittleEndian, v)
	}

	var magic uint32
	var version uint16
	if err := get(&magic); err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}
	if magic != sessionMagic {
		return nil, fmt.Errorf("bad session snapshot magic %#x", magic)
	}
	if err := get(&version); err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}
	if version != sessionVersion {
		return nil, fmt.Errorf("unsupported session snapshot version %d (want %d)", version, sessionVersion)
	}

	var seed, tick uint64
	if err := get(&seed); err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}
	if err := get(&tick); err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}

	streams := rng.New(seed)
	var streamCount uint8
	if err := get(&streamCount); err != nil {
		return nil, fmt.Errorf("reading stream count: %w", err)
	}
	all := streams.All()
	if int(streamCount) != len(all) {
		return nil, fmt.Errorf("snapshot has %d rng streams, this build has %d", streamCount, len(all))
	}
	for _, st := range all {
		var n uint16
		if err := get(&n); err != nil {
			return nil, fmt.Errorf("reading stream %q: %w", st.Name(), err)
		}
		state := make([]byte, n)
		if _, err := io.ReadFull(in, state); err != nil {
			return nil, fmt.Errorf("reading stream %q: %w", st.Name(), err)
		}
		if err := st.UnmarshalState(state); err != nil {
			return nil, fmt.Errorf("restoring stream %q: %w", st.Name(), err)
		}
	}

	var playerCount uint8
	if err := get(&playerCount); err != nil {
		return nil, fmt.Errorf("reading player bindings: %w", err)
	}
	players := make([]components.Handle, playerCount)
	for i := range players {
		if err := get(&players[i].Index); err != nil {
			return nil, fmt.Errorf("reading player bindings: %w", err)
		}
		if err := get(&players[i].Gen); err != nil {
			return nil, fmt.Errorf("reading player bindings: %w", err)
		}
	}

	store, err := entity.DecodeFrom(in)
	if err != nil {
		return nil, err
	}
	for _, h := range players {
		if store.Vehicle(h) == nil {
			return nil, fmt.Errorf("snapshot player binding %v is not a vehicle", h)
		}
	}

	s := &Session{
		store:        store,
		grid:         grid,
		streams:      streams,
		seed:         seed,
		tick:         tick,
		players:      players,
		playerInputs: make([]components.Input, playerCount),
		collector:    telemetry.NewCollector(cfg.Telemetry.WindowTicks, cfg.Physics.DT),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
	for i := range s.playerInputs {
		s.playerInputs[i] = components.EmptyInput
	}

	w, h := grid.Bounds()
	s.sgrid = systems.NewSpatialGrid(w, h, float32(cfg.Physics.GridCellSize))
	s.movement = systems.NewMovementSystem(grid)
	s.flight = systems.NewProjectileSystem()
	s.collision = systems.NewCollisionSystem(grid)
	s.bots = bot.NewController(grid)

	return s, nil
}
