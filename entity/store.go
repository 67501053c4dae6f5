// Package entity implements the generational slot store that owns all
// simulated objects. Other packages hold components.Handle values, never
// pointers; a stale handle fails lookups deterministically instead of
// aliasing a recycled slot.
package entity

import (
	"github.com/pthm-cable/warpath/components"
)

// slot is the bookkeeping for one entity index.
type slot struct {
	gen   uint32
	live  bool
	class components.Class
}

// Store holds all entities up to a fixed capacity. Insert, remove and
// lookup are O(1); removed slots are recycled LIFO with an incremented
// generation.
//
// Iteration order is slot-index order, not creation order. Collision and
// damage resolution tie-breaks depend on this order; it is part of the
// determinism contract and must not be reordered.
type Store struct {
	slots []slot
	free  []uint32
	count int
	// high is one past the highest slot ever used; iteration stops there.
	high int

	transforms  []components.Transform
	vehicles    []components.VehicleState
	projectiles []components.ProjectileState
	effects     []components.EffectState
	pickups     []components.PickupState
}

// NewStore creates a store with the given fixed capacity. Creation
// requests beyond capacity fail gracefully (callers drop the spawn).
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		slots:       make([]slot, capacity),
		free:        make([]uint32, 0, capacity),
		transforms:  make([]components.Transform, capacity),
		vehicles:    make([]components.VehicleState, capacity),
		projectiles: make([]components.ProjectileState, capacity),
		effects:     make([]components.EffectState, capacity),
		pickups:     make([]components.PickupState, capacity),
	}
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return s.count
}

// Cap returns the fixed entity capacity.
func (s *Store) Cap() int {
	return len(s.slots)
}

// alloc claims a slot and returns its handle, or a zero handle when full.
func (s *Store) alloc(class components.Class) (components.Handle, bool) {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if s.high >= len(s.slots) {
			return components.Handle{}, false
		}
		idx = uint32(s.high)
		s.high++
	}

	sl := &s.slots[idx]
	sl.gen++ // generations start at 1; zero handles are never valid
	sl.live = true
	sl.class = class
	s.count++
	return components.Handle{Index: idx, Gen: sl.gen}, true
}

// Valid reports whether h refers to a live entity.
func (s *Store) Valid(h components.Handle) bool {
	if h.IsZero() || h.Index >= uint32(s.high) {
		return false
	}
	sl := &s.slots[h.Index]
	return sl.live && sl.gen == h.Gen
}

// Class returns the entity's class, or ClassNone for stale handles.
func (s *Store) Class(h components.Handle) components.Class {
	if !s.Valid(h) {
		return components.ClassNone
	}
	return s.slots[h.Index].class
}

// Remove frees the entity's slot and bumps its generation so outstanding
// handles go stale. Returns false if h was already invalid.
func (s *Store) Remove(h components.Handle) bool {
	if !s.Valid(h) {
		return false
	}
	sl := &s.slots[h.Index]
	sl.live = false
	sl.class = components.ClassNone
	s.free = append(s.free, h.Index)
	s.count--
	return true
}

// CreateVehicle inserts a vehicle entity. ok is false when the store is
// at capacity.
func (s *Store) CreateVehicle(tr components.Transform, v components.VehicleState) (h components.Handle, ok bool) {
	h, ok = s.alloc(components.ClassVehicle)
	if !ok {
		return components.Handle{}, false
	}
	s.transforms[h.Index] = tr
	s.vehicles[h.Index] = v
	return h, true
}

// CreateProjectile inserts a projectile entity.
func (s *Store) CreateProjectile(tr components.Transform, p components.ProjectileState) (h components.Handle, ok bool) {
	h, ok = s.alloc(components.ClassProjectile)
	if !ok {
		return components.Handle{}, false
	}
	s.transforms[h.Index] = tr
	s.projectiles[h.Index] = p
	return h, true
}

// CreateEffect inserts an effect entity.
func (s *Store) CreateEffect(tr components.Transform, e components.EffectState) (h components.Handle, ok bool) {
	h, ok = s.alloc(components.ClassEffect)
	if !ok {
		return components.Handle{}, false
	}
	s.transforms[h.Index] = tr
	s.effects[h.Index] = e
	return h, true
}

// CreatePickup inserts a pickup entity.
func (s *Store) CreatePickup(tr components.Transform, p components.PickupState) (h components.Handle, ok bool) {
	h, ok = s.alloc(components.ClassPickup)
	if !ok {
		return components.Handle{}, false
	}
	s.transforms[h.Index] = tr
	s.pickups[h.Index] = p
	return h, true
}

// Transform returns the entity's transform, or nil for stale handles.
func (s *Store) Transform(h components.Handle) *components.Transform {
	if !s.Valid(h) {
		return nil
	}
	return &s.transforms[h.Index]
}

// Vehicle returns the vehicle component, or nil if h is stale or not a
// vehicle.
func (s *Store) Vehicle(h components.Handle) *components.VehicleState {
	if !s.Valid(h) || s.slots[h.Index].class != components.ClassVehicle {
		return nil
	}
	return &s.vehicles[h.Index]
}

// Projectile returns the projectile component, or nil.
func (s *Store) Projectile(h components.Handle) *components.ProjectileState {
	if !s.Valid(h) || s.slots[h.Index].class != components.ClassProjectile {
		return nil
	}
	return &s.projectiles[h.Index]
}

// Effect returns the effect component, or nil.
func (s *Store) Effect(h components.Handle) *components.EffectState {
	if !s.Valid(h) || s.slots[h.Index].class != components.ClassEffect {
		return nil
	}
	return &s.effects[h.Index]
}

// Pickup returns the pickup component, or nil.
func (s *Store) Pickup(h components.Handle) *components.PickupState {
	if !s.Valid(h) || s.slots[h.Index].class != components.ClassPickup {
		return nil
	}
	return &s.pickups[h.Index]
}

// handleAt builds the handle for a live slot index.
func (s *Store) handleAt(idx int) components.Handle {
	return components.Handle{Index: uint32(idx), Gen: s.slots[idx].gen}
}

// ForEachVehicle visits live vehicles in slot order. The callback must not
// create or remove entities; collect and apply mutations after iteration.
func (s *Store) ForEachVehicle(fn func(h components.Handle, tr *components.Transform, v *components.VehicleState)) {
	for i := 0; i < s.high; i++ {
		if s.slots[i].live && s.slots[i].class == components.ClassVehicle {
			fn(s.handleAt(i), &s.transforms[i], &s.vehicles[i])
		}
	}
}

// ForEachProjectile visits live projectiles in slot order.
func (s *Store) ForEachProjectile(fn func(h components.Handle, tr *components.Transform, p *components.ProjectileState)) {
	for i := 0; i < s.high; i++ {
		if s.slots[i].live && s.slots[i].class == components.ClassProjectile {
			fn(s.handleAt(i), &s.transforms[i], &s.projectiles[i])
		}
	}
}

// ForEachEffect visits live effects in slot order.
func (s *Store) ForEachEffect(fn func(h components.Handle, tr *components.Transform, e *components.EffectState)) {
	for i := 0; i < s.high; i++ {
		if s.slots[i].live && s.slots[i].class == components.ClassEffect {
			fn(s.handleAt(i), &s.transforms[i], &s.effects[i])
		}
	}
}

// ForEachPickup visits live pickups in slot order.
func (s *Store) ForEachPickup(fn func(h components.Handle, tr *components.Transform, p *components.PickupState)) {
	for i := 0; i < s.high; i++ {
		if s.slots[i].live && s.slots[i].class == components.ClassPickup {
			fn(s.handleAt(i), &s.transforms[i], &s.pickups[i])
		}
	}
}

// ForEach visits every live entity in slot order.
func (s *Store) ForEach(fn func(h components.Handle, class components.Class, tr *components.Transform)) {
	for i := 0; i < s.high; i++ {
		if s.slots[i].live {
			fn(s.handleAt(i), s.slots[i].class, &s.transforms[i])
		}
	}
}
