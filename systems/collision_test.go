package systems

import (
	"testing"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

func newCollisionRig(t *testing.T) (*CollisionSystem, *SpatialGrid, *entity.Store) {
	t.Helper()
	grid := openGrid(t)
	w, h := grid.Bounds()
	return NewCollisionSystem(grid), NewSpatialGrid(w, h, float32(config.Cfg().Physics.GridCellSize)), entity.NewStore(64)
}

func addProjectile(s *entity.Store, from, to components.Vec2, owner components.Handle) components.Handle {
	h, ok := s.CreateProjectile(
		components.Transform{Pos: to},
		components.ProjectileState{Kind: components.WeaponRocket, Owner: owner, PrevPos: from, Life: 100},
	)
	if !ok {
		panic("store full in test")
	}
	return h
}

func TestVehiclePairPushback(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)
	radius := float32(config.Cfg().Vehicle.Radius)

	// Overlapping by half a radius, moving toward each other.
	a := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	b := addVehicle(store, components.Vec2{X: 100 + 1.5*radius, Y: 100}, 0)
	store.Transform(a).Vel = components.Vec2{X: 80}
	store.Transform(b).Vel = components.Vec2{X: -80}

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)

	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(contacts))
	}
	c := contacts[0]
	if c.Kind != ContactVehicleVehicle || c.A != a || c.B != b {
		t.Fatalf("contact = %+v, want vehicle pair (a,b)", c)
	}

	// Pushback separates symmetrically and leaves velocity alone.
	sep := store.Transform(b).Pos.Sub(store.Transform(a).Pos).Len()
	if sep < 2*radius-1e-3 {
		t.Errorf("separation %v after pushback, want >= %v", sep, 2*radius)
	}
	if store.Transform(a).Pos.X >= 100 || store.Transform(b).Pos.X <= 100+1.5*radius {
		t.Error("pushback was not symmetric")
	}
	if store.Transform(a).Vel.X != 80 || store.Transform(b).Vel.X != -80 {
		t.Error("pushback changed velocity")
	}
}

func TestPushbackKeepsVehiclesOutOfWalls(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)
	grid := sys.grid
	radius := float32(config.Cfg().Vehicle.Radius)

	// a sits one unit clear of the north border wall; b overlaps from
	// below, so a symmetric split would shove a into the tiles.
	tile := float32(config.Cfg().World.TileSize)
	ay := tile + radius + 1
	a := addVehicle(store, components.Vec2{X: 100, Y: ay}, 0)
	b := addVehicle(store, components.Vec2{X: 100, Y: ay + 1.5*radius}, 0)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)

	if len(contacts) != 1 || contacts[0].Kind != ContactVehicleVehicle {
		t.Fatalf("contacts = %+v, want one vehicle pair", contacts)
	}
	aPos := store.Transform(a).Pos
	bPos := store.Transform(b).Pos
	if grid.CollidesCircle(aPos, radius) {
		t.Errorf("wall-side vehicle pushed into blocking terrain at %v", aPos)
	}
	if grid.CollidesCircle(bPos, radius) {
		t.Errorf("free-side vehicle pushed into blocking terrain at %v", bPos)
	}
	// The free side absorbs the whole correction.
	if aPos.Y != ay {
		t.Errorf("wall-side vehicle moved from y=%v to y=%v", ay, aPos.Y)
	}
	if sep := bPos.Sub(aPos).Len(); sep < 2*radius-1e-3 {
		t.Errorf("separation %v after pushback, want >= %v", sep, 2*radius)
	}
}

func TestVehiclePairReportedOnce(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)
	radius := float32(config.Cfg().Vehicle.Radius)

	addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	addVehicle(store, components.Vec2{X: 100 + radius, Y: 100}, 0)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)
	if len(contacts) != 1 {
		t.Fatalf("pair reported %d times", len(contacts))
	}
}

func TestProjectileHitsVehicle(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 64, Y: 100}, 0)
	target := addVehicle(store, components.Vec2{X: 200, Y: 100}, 0)
	p := addProjectile(store, components.Vec2{X: 120, Y: 100}, components.Vec2{X: 260, Y: 100}, owner)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)

	var hit *Contact
	for i := range contacts {
		if contacts[i].Kind == ContactProjectileVehicle {
			hit = &contacts[i]
		}
	}
	if hit == nil {
		t.Fatal("no projectile-vehicle contact")
	}
	if hit.A != p || hit.B != target {
		t.Fatalf("contact = %+v, want projectile %v hitting %v", hit, p, target)
	}
	// Impact point is on the near side of the target circle.
	if hit.Pos.X >= 200 {
		t.Errorf("impact at %v, want before the target center", hit.Pos)
	}
}

func TestProjectileSkipsOwner(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 150, Y: 100}, 0)
	// Segment passes straight through the owner.
	addProjectile(store, components.Vec2{X: 100, Y: 100}, components.Vec2{X: 200, Y: 100}, owner)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)
	for _, c := range contacts {
		if c.Kind == ContactProjectileVehicle {
			t.Fatalf("projectile hit its owner: %+v", c)
		}
	}
}

func TestProjectileSkipsWrecks(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 64, Y: 100}, 0)
	wreck := addVehicle(store, components.Vec2{X: 150, Y: 100}, 0)
	store.Vehicle(wreck).Dead = true
	addProjectile(store, components.Vec2{X: 100, Y: 100}, components.Vec2{X: 200, Y: 100}, owner)

	sgrid.Rebuild(store)
	for _, c := range sys.Update(store, sgrid, nil) {
		if c.Kind == ContactProjectileVehicle {
			t.Fatalf("projectile hit a wreck: %+v", c)
		}
	}
}

func TestProjectileMapHit(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 300, Y: 100}, 0)
	// One tick carries it from open ground deep into the east border wall:
	// the segment cast must catch the wall crossing.
	p := addProjectile(store, components.Vec2{X: 340, Y: 100}, components.Vec2{X: 420, Y: 100}, owner)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)

	if len(contacts) != 1 || contacts[0].Kind != ContactProjectileMap {
		t.Fatalf("contacts = %+v, want one map hit", contacts)
	}
	if contacts[0].A != p {
		t.Errorf("map hit attributed to %v, want %v", contacts[0].A, p)
	}
	if contacts[0].Pos.X < 352 {
		t.Errorf("impact at %v, want inside the wall span", contacts[0].Pos)
	}
}

func TestEarlierHitWins(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 64, Y: 164}, 0)
	near := addVehicle(store, components.Vec2{X: 150, Y: 100}, 0)
	addVehicle(store, components.Vec2{X: 250, Y: 100}, 0) // behind the first
	addProjectile(store, components.Vec2{X: 100, Y: 100}, components.Vec2{X: 300, Y: 100}, owner)

	sgrid.Rebuild(store)
	contacts := sys.Update(store, sgrid, nil)

	var hits []Contact
	for _, c := range contacts {
		if c.Kind == ContactProjectileVehicle {
			hits = append(hits, c)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("got %d vehicle hits, want 1", len(hits))
	}
	if hits[0].B != near {
		t.Errorf("hit %v, want the nearer vehicle %v", hits[0].B, near)
	}
}

func TestMineTriggersWhenArmed(t *testing.T) {
	sys, sgrid, store := newCollisionRig(t)

	owner := addVehicle(store, components.Vec2{X: 110, Y: 100}, 0)
	mine, _ := store.CreatePickup(
		components.Transform{Pos: components.Vec2{X: 100, Y: 100}},
		components.PickupState{Kind: components.PickupMine, Owner: owner, ArmDelay: 5, TriggerRadius: 24},
	)

	sgrid.Rebuild(store)
	for _, c := range sys.Update(store, sgrid, nil) {
		if c.Kind == ContactPickupVehicle {
			t.Fatal("unarmed mine triggered")
		}
	}

	store.Pickup(mine).ArmDelay = 0
	contacts := sys.Update(store, sgrid, nil)

	var trig *Contact
	for i := range contacts {
		if contacts[i].Kind == ContactPickupVehicle {
			trig = &contacts[i]
		}
	}
	if trig == nil {
		t.Fatal("armed mine did not trigger")
	}
	// Arming done, the owner is fair game too.
	if trig.A != mine || trig.B != owner {
		t.Fatalf("trigger = %+v, want mine %v on owner %v", trig, mine, owner)
	}
}
