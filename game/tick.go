package game

import (
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/telemetry"
	"github.com/pthm-cable/warpath/weapons"
)

// Tick advances the simulation by exactly one fixed step. The phase order
// is part of the determinism contract: inputs are gathered before any
// physics runs, collision sees fully integrated positions, and all entity
// creation and removal happens in the weapons and reap phases, never
// during store iteration.
func (s *Session) Tick() {
	cfg := config.Cfg()
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseInput)
	s.gatherInputs()

	s.perf.StartPhase(telemetry.PhaseMovement)
	s.movement.Update(s.store)

	s.perf.StartPhase(telemetry.PhaseFlight)
	s.projEv.Reset()
	s.flight.Update(s.store, &s.projEv)

	s.perf.StartPhase(telemetry.PhaseBroadphase)
	s.sgrid.Rebuild(s.store)

	s.perf.StartPhase(telemetry.PhaseCollision)
	s.contacts = s.collision.Update(s.store, s.sgrid, s.contacts[:0])

	s.perf.StartPhase(telemetry.PhaseWeapons)
	s.resolveContacts()
	s.resolveSplits()
	s.resolveExpired()
	s.bfgBeams()
	s.fireWeapons()

	s.perf.StartPhase(telemetry.PhaseReap)
	s.reapEffects()

	s.perf.StartPhase(telemetry.PhaseTimers)
	s.runTimers()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry(cfg)

	s.perf.EndTick()
	s.tick++
}

// gatherInputs copies player inputs into their vehicles, runs the bot
// controller, and applies per-vehicle command edges: weapon switching and
// self-destruct, both of which act before physics so they take effect the
// tick they were pressed.
func (s *Session) gatherInputs() {
	if s.journal != nil {
		for i := range s.players {
			s.journal.Record(s.tick, i, s.playerInputs[i])
		}
	}

	for i, h := range s.players {
		if v := s.store.Vehicle(h); v != nil {
			v.Ctrl = s.playerInputs[i]
		}
	}

	s.bots.Update(s.store, s.streams, s.tick)

	s.destructs = s.destructs[:0]
	s.store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		// A guided missile that hit or expired releases the hull.
		if !v.Missile.IsZero() && s.store.Projectile(v.Missile) == nil {
			v.Missile = components.Handle{}
		}
		if !v.Alive() {
			return
		}
		applyWeaponSwitch(v)
		if v.Ctrl.SelfDestruct {
			s.destructs = append(s.destructs, h)
		}
	})
	for _, h := range s.destructs {
		s.selfDestruct(h)
	}
	s.spawnPendingFX()
}

// applyWeaponSwitch resolves this tick's weapon selection commands.
// Direct selection wins over cycling when both arrive at once.
func applyWeaponSwitch(v *components.VehicleState) {
	in := &v.Ctrl
	switch {
	case in.WeaponSelect >= 0 && in.WeaponSelect < components.WeaponCount:
		v.CurWeapon = components.WeaponKind(in.WeaponSelect)
	case in.NextWeapon:
		v.CurWeapon = v.CurWeapon.Next()
	case in.PrevWeapon:
		v.CurWeapon = v.CurWeapon.Prev()
	}
}

// reapEffects removes effects that have aged out.
func (s *Session) reapEffects() {
	s.respawns = s.respawns[:0] // reuse as the removal list
	s.store.ForEachEffect(func(h components.Handle, tr *components.Transform, e *components.EffectState) {
		if e.Age >= e.Duration {
			s.respawns = append(s.respawns, h)
		}
	})
	for _, h := range s.respawns {
		s.store.Remove(h)
	}
}

// runTimers advances every countdown: weapon refire and reload, effect
// ages, mine arming, and wreck respawns. Reloads continue on holstered
// weapons and on wrecks alike.
func (s *Session) runTimers() {
	cfg := config.Cfg()

	s.respawns = s.respawns[:0]
	s.store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		weapons.TickAll(v, &cfg.Weapons)
		if v.Alive() {
			return
		}
		if v.RespawnTicks > 0 {
			v.RespawnTicks--
		}
		// Once the delay has run out, bots return immediately; a player
		// wreck waits for the fire button.
		if v.RespawnTicks == 0 && (v.Bot || v.Ctrl.Fire) {
			s.respawns = append(s.respawns, h)
		}
	})
	for _, h := range s.respawns {
		s.respawn(h)
	}

	s.store.ForEachEffect(func(h components.Handle, tr *components.Transform, e *components.EffectState) {
		e.Age++
	})
	s.store.ForEachPickup(func(h components.Handle, tr *components.Transform, p *components.PickupState) {
		if p.ArmDelay > 0 {
			p.ArmDelay--
		}
	})
}

// respawn returns a wreck to play on a fresh spawn point with full HP and
// a full loadout. The slot and handle survive, so player bindings and
// outstanding references stay valid.
func (s *Session) respawn(h components.Handle) {
	cfg := config.Cfg()
	v := s.store.Vehicle(h)
	tr := s.store.Transform(h)
	if v == nil || tr == nil {
		return
	}

	pos, angle := s.grid.RandomSpawn(s.streams.Spawn().Rand)
	tr.Pos = pos
	tr.Vel = components.Vec2{}
	tr.Angle = angle

	v.HP = float32(cfg.Vehicle.MaxHP)
	v.Dead = false
	v.TurnRate = 0
	v.InWater = false
	v.Ctrl = components.EmptyInput
	v.CurWeapon = components.WeaponMachineGun
	v.Missile = components.Handle{}
	for kind := components.WeaponKind(0); kind < components.WeaponCount; kind++ {
		v.Ammo[kind] = weapons.NewAmmo(cfg.Weapons.ByKind(kind))
	}

	s.collector.RecordRespawn()
}

// flushTelemetry emits window stats when the window elapses.
func (s *Session) flushTelemetry(cfg *config.Config) {
	if !cfg.Telemetry.Enabled || !s.collector.ShouldFlush(s.tick) {
		return
	}

	vehicles, projectiles := 0, 0
	s.hpScratch = s.hpScratch[:0]
	s.store.ForEach(func(h components.Handle, class components.Class, tr *components.Transform) {
		switch class {
		case components.ClassVehicle:
			vehicles++
			if v := s.store.Vehicle(h); v != nil && v.Alive() {
				s.hpScratch = append(s.hpScratch, float64(v.HP))
			}
		case components.ClassProjectile:
			projectiles++
		}
	})

	stats := s.collector.Flush(s.tick, vehicles, projectiles, s.hpScratch)
	s.lastWindow = stats
	stats.LogStats()
	if err := s.output.WriteTelemetry(stats); err != nil {
		Logf("telemetry write failed: %v", err)
	}

	perfStats := s.perf.Stats()
	perfStats.LogStats()
	if err := s.output.WritePerf(perfStats, s.tick); err != nil {
		Logf("perf write failed: %v", err)
	}
}
