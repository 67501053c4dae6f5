package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
)

// newDuel sets up two stationary player vehicles in the open arena;
// player 0 faces east toward player 1 with a clear line of fire.
func newDuel(t *testing.T, seed uint64) *Session {
	t.Helper()
	s := newTestSession(t, openArena(t), seed, 2, 0)
	place(t, s, 0, components.Vec2{X: 100, Y: 160}, 0)
	place(t, s, 1, components.Vec2{X: 300, Y: 160}, 0)
	return s
}

func hpOf(s *Session, i int) float32 {
	return s.store.Vehicle(s.PlayerHandle(i)).HP
}

func TestRocketDirectHit(t *testing.T) {
	s := newDuel(t, 1)
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponRocket)})

	for i := 0; i < 40; i++ {
		s.Tick()
	}

	want := float32(config.Cfg().Vehicle.MaxHP - config.Cfg().Weapons.Rocket.Damage)
	if got := hpOf(s, 1); got != want {
		t.Errorf("target HP = %v after rocket hit, want %v", got, want)
	}
	if hpOf(s, 0) != float32(config.Cfg().Vehicle.MaxHP) {
		t.Errorf("shooter took damage from its own rocket at range")
	}
	if n := countClass(s, components.ClassProjectile); n != 0 {
		t.Errorf("%d projectiles left after impact, want 0", n)
	}
}

func TestRailgunHitscan(t *testing.T) {
	s := newDuel(t, 1)
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponRailgun)})

	s.Tick()

	want := float32(config.Cfg().Vehicle.MaxHP - config.Cfg().Weapons.Railgun.Damage)
	if got := hpOf(s, 1); got != want {
		t.Errorf("target HP = %v one tick after railgun fire, want %v", got, want)
	}

	beams := 0
	s.store.ForEachEffect(func(h components.Handle, tr *components.Transform, e *components.EffectState) {
		if e.Kind == components.EffectRailBeam {
			beams++
			if e.End.X <= tr.Pos.X {
				t.Errorf("beam end %v not ahead of muzzle %v", e.End, tr.Pos)
			}
		}
	})
	if beams != 1 {
		t.Errorf("beam effects = %d, want 1", beams)
	}
}

func TestRefireCadence(t *testing.T) {
	s := newDuel(t, 1)
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: -1})

	v := s.store.Vehicle(s.PlayerHandle(0))
	mag := int16(config.Cfg().Weapons.MachineGun.Magazine)

	s.Tick()
	if got := v.Ammo[components.WeaponMachineGun].Rounds; got != mag-1 {
		t.Fatalf("rounds = %d after first shot, want %d", got, mag-1)
	}

	// Refire 6 gives shots on ticks 0, 6 and 12.
	for i := 0; i < 12; i++ {
		s.Tick()
	}
	if got := v.Ammo[components.WeaponMachineGun].Rounds; got != mag-3 {
		t.Errorf("rounds = %d after 13 ticks of held fire, want %d", got, mag-3)
	}
}

func TestProjectileExpiresAtMaxRange(t *testing.T) {
	s := newTestSession(t, wideArena(t), 1, 1, 0)
	place(t, s, 0, components.Vec2{X: 64, Y: 96}, 0)

	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: -1})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	if n := countClass(s, components.ClassProjectile); n != 1 {
		t.Fatalf("projectiles = %d after firing, want 1", n)
	}

	life := config.Cfg().Derived.Weapons[components.WeaponMachineGun].LifeTicks
	for i := int32(0); i < life+2; i++ {
		s.Tick()
	}

	if n := countClass(s, components.ClassProjectile); n != 0 {
		t.Errorf("projectiles = %d after lifetime, want 0", n)
	}
	stats := s.collector.Flush(s.tick, 0, 0, nil)
	if stats.WallImpacts != 0 {
		t.Errorf("round reached a wall; expiry should have removed it first")
	}
}

func TestClusterShellSplitsIntoBomblets(t *testing.T) {
	s := newTestSession(t, wideArena(t), 1, 1, 0)
	place(t, s, 0, components.Vec2{X: 64, Y: 96}, 0)

	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponClusterBomb)})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	wc := &config.Cfg().Weapons.ClusterBomb
	for i := 0; i < wc.FuseTicks+2; i++ {
		s.Tick()
	}

	if n := countClass(s, components.ClassProjectile); n != wc.ClusterCount {
		t.Errorf("projectiles = %d after split, want %d bomblets", n, wc.ClusterCount)
	}
}

func TestHomingMissileLocks(t *testing.T) {
	s := newDuel(t, 1)
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponHomingMissile)})

	s.Tick()

	var target components.Handle
	s.store.ForEachProjectile(func(h components.Handle, tr *components.Transform, p *components.ProjectileState) {
		target = p.Target
	})
	if target != s.PlayerHandle(1) {
		t.Errorf("missile locked %v, want player 1 %v", target, s.PlayerHandle(1))
	}
}

func TestGuidedMissileFollowsSteer(t *testing.T) {
	s := newTestSession(t, wideArena(t), 1, 1, 0)
	place(t, s, 0, components.Vec2{X: 64, Y: 96}, 0)

	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponGuidedMissile)})
	s.Tick()

	h := s.PlayerHandle(0)
	v := s.store.Vehicle(h)
	if v.Missile.IsZero() {
		t.Fatal("no missile bound after firing")
	}
	p := s.store.Projectile(v.Missile)
	if p == nil || p.Kind != components.WeaponGuidedMissile {
		t.Fatalf("bound handle is not a guided missile: %+v", p)
	}

	// Hold hard over; the missile answers the stick, the hull does not.
	tr := s.store.Transform(h)
	pos, angle := tr.Pos, tr.Angle
	s.SetPlayerInput(0, components.Input{Steer: 1, Throttle: 1, WeaponSelect: -1})
	const steered = 10
	for i := 0; i < steered; i++ {
		s.Tick()
	}

	if tr.Pos != pos || tr.Angle != angle {
		t.Errorf("hull moved while guiding: pos %v -> %v, angle %v -> %v", pos, tr.Pos, angle, tr.Angle)
	}

	mtr := s.store.Transform(v.Missile)
	if mtr == nil {
		t.Fatal("missile gone mid-guidance")
	}
	want := float32(config.Cfg().Weapons.GuidedMissile.GuideTurn) * config.Cfg().Derived.DT32 * steered
	if got := mtr.Vel.Angle(); math.Abs(float64(got-want)) > 0.02 {
		t.Errorf("missile heading = %v after %d steered ticks, want %v", got, steered, want)
	}
}

func TestGuidedMissileReleasesHull(t *testing.T) {
	s := newTestSession(t, wideArena(t), 1, 1, 0)
	place(t, s, 0, components.Vec2{X: 64, Y: 96}, 0)

	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponGuidedMissile)})
	s.Tick()
	s.SetPlayerInput(0, components.Input{Steer: 1, WeaponSelect: -1})

	v := s.store.Vehicle(s.PlayerHandle(0))
	if v.Missile.IsZero() {
		t.Fatal("no missile bound after firing")
	}

	// Held steer curves the missile into the south wall well before max
	// range; the cap covers expiry in case it somehow flies clean.
	life := config.Cfg().Derived.Weapons[components.WeaponGuidedMissile].LifeTicks
	for i := int32(0); i < life+4 && !v.Missile.IsZero(); i++ {
		s.Tick()
	}

	if !v.Missile.IsZero() {
		t.Fatal("hull still bound after the missile was gone")
	}
	if n := countClass(s, components.ClassProjectile); n != 0 {
		t.Errorf("projectiles = %d after impact, want 0", n)
	}
}

func TestBfgBeamDrainsNearbyEnemies(t *testing.T) {
	s := newDuel(t, 1)
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponBFG)})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	// The slow orb closes the 200-unit gap at 2.5 per tick; stop it
	// mid-flight, inside beam range of the target but short of impact.
	for i := 0; i < 40; i++ {
		s.Tick()
	}

	if n := countClass(s, components.ClassProjectile); n != 1 {
		t.Fatalf("projectiles = %d mid-flight, want the orb", n)
	}
	maxHP := float32(config.Cfg().Vehicle.MaxHP)
	got := hpOf(s, 1)
	if got >= maxHP {
		t.Fatal("target untouched inside beam range")
	}
	if got <= maxHP-float32(config.Cfg().Weapons.BFG.Damage) {
		t.Errorf("target HP = %v, beam drained more than a direct hit", got)
	}
	if hpOf(s, 0) != maxHP {
		t.Errorf("owner HP = %v, the beam must skip its owner", hpOf(s, 0))
	}

	beams := 0
	s.store.ForEachEffect(func(h components.Handle, tr *components.Transform, e *components.EffectState) {
		if e.Kind == components.EffectBfgBeam {
			beams++
		}
	})
	if beams == 0 {
		t.Error("no beam effects while the arc held")
	}
}

func TestMineArmsAndTriggers(t *testing.T) {
	s := newDuel(t, 1)
	place(t, s, 0, components.Vec2{X: 100, Y: 160}, 0)

	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: int8(components.WeaponMine)})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	if n := countClass(s, components.ClassPickup); n != 1 {
		t.Fatalf("mines = %d after laying, want 1", n)
	}

	// Mine drops behind the hull at x=100-18-6=76. Park the victim on top
	// of it and move the layer away before the arming delay runs out.
	place(t, s, 0, components.Vec2{X: 500, Y: 160}, 0)
	place(t, s, 1, components.Vec2{X: 86, Y: 160}, 0)

	wc := &config.Cfg().Weapons.Mine
	for i := 0; i < wc.ArmTicks+2; i++ {
		s.Tick()
	}

	if n := countClass(s, components.ClassPickup); n != 0 {
		t.Errorf("mine still present after trigger")
	}
	// Victim sits inside the inverse-square core: full damage.
	want := float32(config.Cfg().Vehicle.MaxHP) - float32(wc.Damage)
	if got := hpOf(s, 1); got != want {
		t.Errorf("victim HP = %v after mine, want %v", got, want)
	}
	if got := hpOf(s, 0); got != float32(config.Cfg().Vehicle.MaxHP) {
		t.Errorf("layer HP = %v, want undamaged at range", got)
	}
}

func TestSelfDestruct(t *testing.T) {
	s := newDuel(t, 1)
	place(t, s, 0, components.Vec2{X: 100, Y: 160}, 0)
	place(t, s, 1, components.Vec2{X: 140, Y: 160}, 0)

	s.SetPlayerInput(0, components.Input{SelfDestruct: true, WeaponSelect: -1})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	a := s.store.Vehicle(s.PlayerHandle(0))
	if !a.Dead || a.HP != 0 {
		t.Errorf("self-destructed vehicle alive with HP %v", a.HP)
	}
	if a.RespawnTicks != int32(config.Cfg().Vehicle.RespawnDelayTicks) {
		t.Errorf("respawn countdown = %d, want %d", a.RespawnTicks, config.Cfg().Vehicle.RespawnDelayTicks)
	}

	// Linear falloff at 40 of 80 units: half the base damage.
	vc := &config.Cfg().Vehicle
	want := float32(vc.MaxHP) - float32(vc.SelfDestructDamage)*0.5
	if got := hpOf(s, 1); math.Abs(float64(got-want)) > 0.01 {
		t.Errorf("bystander HP = %v, want %v", got, want)
	}
}

func TestWreckRespawns(t *testing.T) {
	s := newDuel(t, 1)
	place(t, s, 1, components.Vec2{X: 500, Y: 256}, 0)

	s.SetPlayerInput(0, components.Input{SelfDestruct: true, WeaponSelect: -1})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	h := s.PlayerHandle(0)
	for i := 0; i < config.Cfg().Vehicle.RespawnDelayTicks+2; i++ {
		s.Tick()
	}

	v := s.store.Vehicle(h)
	if v == nil {
		t.Fatal("player handle went stale across respawn")
	}
	if !v.Dead {
		t.Fatal("player respawned without pressing fire")
	}

	// The delay has elapsed; fire brings the player back.
	s.SetPlayerInput(0, components.Input{Fire: true, WeaponSelect: -1})
	s.Tick()
	s.SetPlayerInput(0, components.EmptyInput)

	if v.Dead {
		t.Fatal("vehicle still a wreck after pressing fire")
	}
	if v.HP != float32(config.Cfg().Vehicle.MaxHP) {
		t.Errorf("respawned HP = %v, want full", v.HP)
	}
	mag := int16(config.Cfg().Weapons.MachineGun.Magazine)
	if v.Ammo[components.WeaponMachineGun].Rounds != mag {
		t.Errorf("respawned rounds = %d, want full magazine %d", v.Ammo[components.WeaponMachineGun].Rounds, mag)
	}
}

func TestWeaponCycling(t *testing.T) {
	s := newDuel(t, 1)
	v := s.store.Vehicle(s.PlayerHandle(0))

	s.SetPlayerInput(0, components.Input{NextWeapon: true, WeaponSelect: -1})
	s.Tick()
	if v.CurWeapon != components.WeaponRailgun {
		t.Errorf("after next: %v, want railgun", v.CurWeapon)
	}

	s.SetPlayerInput(0, components.Input{PrevWeapon: true, WeaponSelect: -1})
	s.Tick()
	if v.CurWeapon != components.WeaponMachineGun {
		t.Errorf("after prev: %v, want machine_gun", v.CurWeapon)
	}

	s.SetPlayerInput(0, components.Input{WeaponSelect: int8(components.WeaponMine)})
	s.Tick()
	if v.CurWeapon != components.WeaponMine {
		t.Errorf("after select: %v, want mine", v.CurWeapon)
	}
}
