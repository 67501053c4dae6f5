package systems

import (
	"testing"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/entity"
)

func TestQueryRadius(t *testing.T) {
	store := entity.NewStore(16)
	grid := NewSpatialGrid(640, 480, 64)

	center := addVehicle(store, components.Vec2{X: 320, Y: 240}, 0)
	near := addVehicle(store, components.Vec2{X: 350, Y: 240}, 0)
	addVehicle(store, components.Vec2{X: 600, Y: 50}, 0) // far away

	grid.Rebuild(store)
	got := grid.QueryRadiusInto(nil, components.Vec2{X: 320, Y: 240}, 100, center, store)

	if len(got) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(got))
	}
	n := got[0]
	if n.H != near {
		t.Fatalf("neighbor = %v, want %v", n.H, near)
	}
	if n.DX != 30 || n.DY != 0 || n.DistSq != 900 {
		t.Errorf("neighbor deltas = (%v,%v,%v), want (30,0,900)", n.DX, n.DY, n.DistSq)
	}
}

func TestQueryExcludesSelf(t *testing.T) {
	store := entity.NewStore(16)
	grid := NewSpatialGrid(640, 480, 64)

	h := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	grid.Rebuild(store)

	if got := grid.QueryRadiusInto(nil, components.Vec2{X: 100, Y: 100}, 50, h, store); len(got) != 0 {
		t.Errorf("query returned the excluded entity: %v", got)
	}
}

func TestQueryDoesNotWrap(t *testing.T) {
	store := entity.NewStore(16)
	grid := NewSpatialGrid(640, 480, 64)

	// On a toroidal world these would be 20 apart; this arena is bounded.
	addVehicle(store, components.Vec2{X: 10, Y: 240}, 0)
	grid.Rebuild(store)

	got := grid.QueryRadiusInto(nil, components.Vec2{X: 630, Y: 240}, 100, components.Handle{}, store)
	if len(got) != 0 {
		t.Errorf("query wrapped around the world edge: %v", got)
	}
}

func TestRebuildTracksMovement(t *testing.T) {
	store := entity.NewStore(16)
	grid := NewSpatialGrid(640, 480, 64)

	h := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	grid.Rebuild(store)
	if got := grid.QueryRadiusInto(nil, components.Vec2{X: 100, Y: 100}, 10, components.Handle{}, store); len(got) != 1 {
		t.Fatalf("initial query found %d, want 1", len(got))
	}

	store.Transform(h).Pos = components.Vec2{X: 500, Y: 400}
	grid.Rebuild(store)

	if got := grid.QueryRadiusInto(nil, components.Vec2{X: 100, Y: 100}, 10, components.Handle{}, store); len(got) != 0 {
		t.Error("stale cell still answered after rebuild")
	}
	if got := grid.QueryRadiusInto(nil, components.Vec2{X: 500, Y: 400}, 10, components.Handle{}, store); len(got) != 1 {
		t.Error("moved entity not found at new position")
	}
}

func TestQueryCapBounded(t *testing.T) {
	store := entity.NewStore(256)
	grid := NewSpatialGrid(640, 480, 64)

	for i := 0; i < MaxQueryResults+40; i++ {
		addVehicle(store, components.Vec2{X: 320, Y: 240}, 0)
	}
	grid.Rebuild(store)

	got := grid.QueryRadiusInto(nil, components.Vec2{X: 320, Y: 240}, 50, components.Handle{}, store)
	if len(got) != MaxQueryResults {
		t.Errorf("query returned %d, cap is %d", len(got), MaxQueryResults)
	}
}
