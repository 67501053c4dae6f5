package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

func TestProjectileIntegration(t *testing.T) {
	sys := NewProjectileSystem()
	store := entity.NewStore(8)
	dt := config.Cfg().Derived.DT32

	start := components.Vec2{X: 100, Y: 100}
	vel := components.Vec2{X: 500, Y: 0}
	h, _ := store.CreateProjectile(
		components.Transform{Pos: start, Vel: vel},
		components.ProjectileState{Kind: components.WeaponRocket, Life: 100},
	)

	var ev ProjectileEvents
	sys.Update(store, &ev)

	tr := store.Transform(h)
	p := store.Projectile(h)
	if p.PrevPos != start {
		t.Errorf("PrevPos = %v, want %v", p.PrevPos, start)
	}
	want := start.Add(vel.Scale(dt))
	if tr.Pos != want {
		t.Errorf("Pos = %v, want %v", tr.Pos, want)
	}
	if p.Life != 99 {
		t.Errorf("Life = %d, want 99", p.Life)
	}
}

func TestProjectileExpiry(t *testing.T) {
	sys := NewProjectileSystem()
	store := entity.NewStore(8)

	h, _ := store.CreateProjectile(
		components.Transform{Pos: components.Vec2{X: 100, Y: 100}, Vel: components.Vec2{X: 100}},
		components.ProjectileState{Kind: components.WeaponRocket, Life: 3},
	)

	var ev ProjectileEvents
	for i := 0; i < 2; i++ {
		ev.Reset()
		sys.Update(store, &ev)
		if len(ev.Expired) != 0 {
			t.Fatalf("expired %d ticks early", 3-i-1)
		}
	}
	ev.Reset()
	sys.Update(store, &ev)
	if len(ev.Expired) != 1 || ev.Expired[0] != h {
		t.Fatalf("Expired = %v, want [%v]", ev.Expired, h)
	}
}

func TestClusterShellSplits(t *testing.T) {
	sys := NewProjectileSystem()
	store := entity.NewStore(8)

	shell, _ := store.CreateProjectile(
		components.Transform{Pos: components.Vec2{X: 100, Y: 100}},
		components.ProjectileState{Kind: components.WeaponClusterBomb, Life: 1},
	)
	bomblet, _ := store.CreateProjectile(
		components.Transform{Pos: components.Vec2{X: 200, Y: 100}},
		components.ProjectileState{Kind: components.WeaponClusterBomb, Life: 1, Bomblet: true},
	)

	var ev ProjectileEvents
	sys.Update(store, &ev)

	if len(ev.Split) != 1 || ev.Split[0] != shell {
		t.Errorf("Split = %v, want [%v]", ev.Split, shell)
	}
	if len(ev.Expired) != 1 || ev.Expired[0] != bomblet {
		t.Errorf("Expired = %v, want [%v]", ev.Expired, bomblet)
	}
}

func TestHomingSteersTowardTarget(t *testing.T) {
	sys := NewProjectileSystem()
	store := entity.NewStore(8)

	target := addVehicle(store, components.Vec2{X: 300, Y: 300}, 0)
	h, _ := store.CreateProjectile(
		// Flying due east, target up and to the right.
		components.Transform{Pos: components.Vec2{X: 100, Y: 100}, Vel: components.Vec2{X: 350}},
		components.ProjectileState{Kind: components.WeaponHomingMissile, Life: 1000, Target: target},
	)

	speed0 := store.Transform(h).Vel.Len()
	errBefore := aimError(store, h, target)
	var ev ProjectileEvents
	for i := 0; i < 30; i++ {
		ev.Reset()
		sys.Update(store, &ev)
	}

	if errAfter := aimError(store, h, target); errAfter >= errBefore {
		t.Errorf("aim error grew from %v to %v", errBefore, errAfter)
	}
	if speed := store.Transform(h).Vel.Len(); math.Abs(float64(speed-speed0)) > 1e-2 {
		t.Errorf("homing changed speed from %v to %v", speed0, speed)
	}
}

func TestHomingLockBreaksOnDeath(t *testing.T) {
	sys := NewProjectileSystem()
	store := entity.NewStore(8)

	target := addVehicle(store, components.Vec2{X: 300, Y: 300}, 0)
	store.Vehicle(target).Dead = true
	h, _ := store.CreateProjectile(
		components.Transform{Pos: components.Vec2{X: 100, Y: 100}, Vel: components.Vec2{X: 350}},
		components.ProjectileState{Kind: components.WeaponHomingMissile, Life: 1000, Target: target},
	)

	var ev ProjectileEvents
	sys.Update(store, &ev)

	p := store.Projectile(h)
	if !p.Target.IsZero() {
		t.Error("lock survived the target's death")
	}
	if vy := store.Transform(h).Vel.Y; vy != 0 {
		t.Errorf("Vel.Y = %v, missile should fly straight after losing lock", vy)
	}
}

func aimError(store *entity.Store, missile, target components.Handle) float64 {
	tr := store.Transform(missile)
	want := store.Transform(target).Pos.Sub(tr.Pos).Angle()
	return math.Abs(float64(components.AngleDiff(want, tr.Vel.Angle())))
}
