// Package game wires the simulation together: the session owns the entity
// store, the arena, the rng streams, and the systems, and advances them in
// a fixed phase order once per tick. Everything that happens in a match
// flows through Session.Tick.
package game

import (
	"fmt"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/bot"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
	"github.com/pthm-cable/warpath/rng"
	"github.com/pthm-cable/warpath/systems"
	"github.com/pthm-cable/warpath/telemetry"
	"github.com/pthm-cable/warpath/weapons"
)

// Session is one running match. All mutable match state lives in the
// entity store and the rng streams; the session itself holds only wiring
// and per-tick scratch buffers, which is what makes snapshots small.
type Session struct {
	store   *entity.Store
	grid    *arena.Grid
	sgrid   *systems.SpatialGrid
	streams *rng.Streams
	seed    uint64
	tick    uint64

	movement  *systems.MovementSystem
	flight    *systems.ProjectileSystem
	collision *systems.CollisionSystem
	bots      *bot.Controller

	// players maps local player index to vehicle handle. Inputs set via
	// SetPlayerInput persist until overwritten, like a held controller.
	players      []components.Handle
	playerInputs []components.Input

	collector  *telemetry.Collector
	perf       *telemetry.PerfCollector
	output     *telemetry.OutputManager
	journal    *Journal
	lastWindow telemetry.WindowStats

	// Per-tick scratch, reused to keep the steady state allocation-free.
	contacts  []systems.Contact
	projEv    systems.ProjectileEvents
	fireQueue []components.Handle
	destructs []components.Handle
	respawns  []components.Handle
	beamHits  []beamHit
	reapFX    []pendingFX
	hpScratch []float64
}

// pendingFX is an explosion queued during store iteration and spawned
// after it, so effect creation never happens mid-loop.
type pendingFX struct {
	pos   components.Vec2
	scale float32
}

// NewSession creates a session on the given arena and spawns the initial
// vehicles: players first, then bots, each on a random spawn point.
func NewSession(grid *arena.Grid, seed uint64, players, bots int) (*Session, error) {
	cfg := config.Cfg()

	total := players + bots
	if total < 1 {
		return nil, fmt.Errorf("session needs at least one vehicle, got %d players and %d bots", players, bots)
	}
	if total > 255 {
		return nil, fmt.Errorf("too many vehicles: %d (max 255)", total)
	}
	if total > cfg.World.MaxEntities {
		return nil, fmt.Errorf("entity capacity %d cannot hold %d vehicles", cfg.World.MaxEntities, total)
	}

	s := &Session{
		store:     entity.NewStore(cfg.World.MaxEntities),
		grid:      grid,
		streams:   rng.New(seed),
		seed:      seed,
		collector: telemetry.NewCollector(cfg.Telemetry.WindowTicks, cfg.Physics.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	w, h := grid.Bounds()
	s.sgrid = systems.NewSpatialGrid(w, h, float32(cfg.Physics.GridCellSize))
	s.movement = systems.NewMovementSystem(grid)
	s.flight = systems.NewProjectileSystem()
	s.collision = systems.NewCollisionSystem(grid)
	s.bots = bot.NewController(grid)

	for i := 0; i < players; i++ {
		h, err := s.spawnVehicle(uint8(i), false)
		if err != nil {
			return nil, err
		}
		s.players = append(s.players, h)
		s.playerInputs = append(s.playerInputs, components.EmptyInput)
	}
	for i := 0; i < bots; i++ {
		if _, err := s.spawnVehicle(uint8(players+i), true); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// spawnVehicle places a fresh vehicle on a random spawn point.
func (s *Session) spawnVehicle(player uint8, isBot bool) (components.Handle, error) {
	cfg := config.Cfg()

	pos, angle := s.grid.RandomSpawn(s.streams.Spawn().Rand)

	v := components.VehicleState{
		HP:     float32(cfg.Vehicle.MaxHP),
		Player: player,
		Bot:    isBot,
		Ctrl:   components.EmptyInput,
	}
	for kind := components.WeaponKind(0); kind < components.WeaponCount; kind++ {
		v.Ammo[kind] = weapons.NewAmmo(cfg.Weapons.ByKind(kind))
	}

	h, ok := s.store.CreateVehicle(components.Transform{Pos: pos, Angle: angle}, v)
	if !ok {
		return components.Handle{}, fmt.Errorf("spawning vehicle for player %d: store full", player)
	}
	return h, nil
}

// SetPlayerInput sets the input applied to player i's vehicle each tick
// until changed. Out-of-range indices are ignored.
func (s *Session) SetPlayerInput(i int, in components.Input) {
	if i < 0 || i >= len(s.playerInputs) {
		return
	}
	s.playerInputs[i] = in
}

// PlayerHandle returns player i's vehicle handle, or a zero handle.
func (s *Session) PlayerHandle(i int) components.Handle {
	if i < 0 || i >= len(s.players) {
		return components.Handle{}
	}
	return s.players[i]
}

// PlayerCount returns the number of local players.
func (s *Session) PlayerCount() int {
	return len(s.players)
}

// Store returns the entity store. Renderers read committed state from it
// between ticks; mutating it mid-tick is not supported.
func (s *Session) Store() *entity.Store {
	return s.store
}

// Grid returns the arena.
func (s *Session) Grid() *arena.Grid {
	return s.grid
}

// Seed returns the session seed.
func (s *Session) Seed() uint64 {
	return s.seed
}

// TickCount returns the number of completed ticks.
func (s *Session) TickCount() uint64 {
	return s.tick
}

// Collector returns the combat stats collector.
func (s *Session) Collector() *telemetry.Collector {
	return s.collector
}

// Perf returns the tick timing collector.
func (s *Session) Perf() *telemetry.PerfCollector {
	return s.perf
}

// LastWindow returns the stats of the most recently flushed telemetry
// window. Zero until the first window elapses.
func (s *Session) LastWindow() telemetry.WindowStats {
	return s.lastWindow
}

// AttachOutput directs telemetry CSV output to om. A nil manager disables
// file output; stats are still logged.
func (s *Session) AttachOutput(om *telemetry.OutputManager) {
	s.output = om
}

// AttachJournal records player inputs each tick for later replay.
func (s *Session) AttachJournal(j *Journal) {
	s.journal = j
}
