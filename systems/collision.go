package systems

import (
	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

// ContactKind classifies a collision event.
type ContactKind uint8

const (
	ContactVehicleVehicle ContactKind = iota
	ContactProjectileVehicle
	ContactProjectileMap
	ContactPickupVehicle
)

// Contact is one collision found this tick. A is the initiating entity in
// store slot order (projectile, pickup, or the lower-slot vehicle); B is
// the vehicle hit, zero for map impacts.
type Contact struct {
	Kind ContactKind
	A, B components.Handle
	Pos  components.Vec2
}

// CollisionSystem runs broad and narrow phase and reports contacts.
// Vehicle pairs get their positional pushback applied here; everything
// else is resolved by the damage pipeline, which consumes the contact
// list in emission order.
type CollisionSystem struct {
	grid    *arena.Grid
	scratch []Neighbor
}

// NewCollisionSystem creates a collision system for the given arena.
func NewCollisionSystem(grid *arena.Grid) *CollisionSystem {
	return &CollisionSystem{grid: grid}
}

// Update detects all contacts for this tick and appends them to contacts.
// Iteration is in store slot order throughout, so the emitted order is
// the same on every run. Dead vehicles are wrecks: nothing collides with
// them.
func (s *CollisionSystem) Update(store *entity.Store, sgrid *SpatialGrid, contacts []Contact) []Contact {
	contacts = s.vehiclePairs(store, sgrid, contacts)
	contacts = s.projectiles(store, contacts)
	contacts = s.pickups(store, sgrid, contacts)
	return contacts
}

// vehiclePairs finds overlapping vehicle pairs, pushes them apart
// symmetrically, and reports the pair. Pushback never touches velocity;
// ramming damage is the pipeline's decision. A hull jammed against a
// wall yields its share of the correction to the free side, so pushback
// never moves a vehicle into blocking terrain.
func (s *CollisionSystem) vehiclePairs(store *entity.Store, sgrid *SpatialGrid, contacts []Contact) []Contact {
	radius := float32(config.Cfg().Vehicle.Radius)

	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		if !v.Alive() {
			return
		}

		s.scratch = sgrid.QueryRadiusInto(s.scratch[:0], tr.Pos, 2*radius, h, store)
		for _, n := range s.scratch {
			// Each pair once, from the lower slot.
			if n.H.Index <= h.Index {
				continue
			}
			other := store.Vehicle(n.H)
			if other == nil || !other.Alive() {
				continue
			}

			otherTr := store.Transform(n.H)
			delta := otherTr.Pos.Sub(tr.Pos)
			dist := delta.Len()
			overlap := 2*radius - dist
			if overlap <= 0 {
				continue
			}

			// Coincident centers get an arbitrary fixed axis.
			axis := components.Vec2{X: 1}
			if dist > 0 {
				axis = delta.Scale(1 / dist)
			}
			tr.Pos, otherTr.Pos = s.separate(tr.Pos, otherTr.Pos, axis, overlap, radius)

			contacts = append(contacts, Contact{
				Kind: ContactVehicleVehicle,
				A:    h,
				B:    n.H,
				Pos:  tr.Pos.Add(axis.Scale(radius)),
			})
		}
	})
	return contacts
}

// separate computes the corrected positions for an overlapping pair.
// The split is symmetric when both sides are free; a side whose half
// step would cross into terrain stays put and the other side takes the
// full overlap, falling back to its half if the full step is blocked
// too. Any overlap left over resolves on later ticks.
func (s *CollisionSystem) separate(a, b, axis components.Vec2, overlap, radius float32) (components.Vec2, components.Vec2) {
	half := axis.Scale(overlap / 2)
	na := a.Sub(half)
	nb := b.Add(half)

	aBlocked := s.grid.CollidesCircle(na, radius)
	bBlocked := s.grid.CollidesCircle(nb, radius)
	switch {
	case aBlocked && bBlocked:
		return a, b
	case aBlocked:
		if full := b.Add(axis.Scale(overlap)); !s.grid.CollidesCircle(full, radius) {
			nb = full
		}
		return a, nb
	case bBlocked:
		if full := a.Sub(axis.Scale(overlap)); !s.grid.CollidesCircle(full, radius) {
			na = full
		}
		return na, b
	}
	return na, nb
}

// projectiles casts each projectile's PrevPos->Pos segment against the
// map and every live vehicle, keeping whichever hit comes first along the
// flight path. Casting the whole segment is what stops fast rounds from
// tunneling through walls or hulls. The owner is always skipped here; the
// self-hit rule applies to blast damage, not direct impacts.
func (s *CollisionSystem) projectiles(store *entity.Store, contacts []Contact) []Contact {
	radius := float32(config.Cfg().Vehicle.Radius)

	store.ForEachProjectile(func(h components.Handle, tr *components.Transform, p *components.ProjectileState) {
		from, to := p.PrevPos, tr.Pos

		bestT := float32(2) // past the segment end
		var best Contact

		if hitPos, ok := s.grid.SegmentHit(from, to); ok {
			bestT = segmentT(from, to, hitPos)
			best = Contact{Kind: ContactProjectileMap, A: h, Pos: hitPos}
		}

		store.ForEachVehicle(func(vh components.Handle, vtr *components.Transform, v *components.VehicleState) {
			if vh == p.Owner || !v.Alive() {
				return
			}
			t, ok := SegmentCircleHit(from, to, vtr.Pos, radius)
			if ok && t < bestT {
				bestT = t
				best = Contact{
					Kind: ContactProjectileVehicle,
					A:    h,
					B:    vh,
					Pos:  from.Add(to.Sub(from).Scale(t)),
				}
			}
		})

		if bestT <= 1 {
			contacts = append(contacts, best)
		}
	})
	return contacts
}

// pickups triggers armed proximity devices. Arming protects the layer
// only until the delay runs out; after that a mine is live for everyone,
// its owner included.
func (s *CollisionSystem) pickups(store *entity.Store, sgrid *SpatialGrid, contacts []Contact) []Contact {
	store.ForEachPickup(func(h components.Handle, tr *components.Transform, p *components.PickupState) {
		if !p.Armed() {
			return
		}

		s.scratch = sgrid.QueryRadiusInto(s.scratch[:0], tr.Pos, p.TriggerRadius, components.Handle{}, store)

		// First triggering vehicle in slot order wins.
		bestIdx := uint32(0)
		var best components.Handle
		for _, n := range s.scratch {
			v := store.Vehicle(n.H)
			if v == nil || !v.Alive() {
				continue
			}
			if best.IsZero() || n.H.Index < bestIdx {
				best = n.H
				bestIdx = n.H.Index
			}
		}
		if !best.IsZero() {
			contacts = append(contacts, Contact{Kind: ContactPickupVehicle, A: h, B: best, Pos: tr.Pos})
		}
	})
	return contacts
}

// segmentT returns how far along a->b the point p sits, in [0,1].
func segmentT(a, b, p components.Vec2) float32 {
	d := b.Sub(a)
	lenSq := d.LenSq()
	if lenSq == 0 {
		return 0
	}
	return clampf(p.Sub(a).Dot(d)/lenSq, 0, 1)
}

// SegmentCircleHit intersects the segment a->b with a circle and returns
// the earliest hit parameter in [0,1]. A segment starting inside hits at
// t=0. Railgun hitscan shares this with the narrow phase.
func SegmentCircleHit(a, b, center components.Vec2, radius float32) (float32, bool) {
	d := b.Sub(a)
	f := a.Sub(center)

	if f.LenSq() <= radius*radius {
		return 0, true
	}

	aa := d.LenSq()
	if aa == 0 {
		return 0, false
	}
	bb := 2 * f.Dot(d)
	cc := f.LenSq() - radius*radius

	disc := bb*bb - 4*aa*cc
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := sqrtf(disc)

	t := (-bb - sqrtDisc) / (2 * aa)
	if t >= 0 && t <= 1 {
		return t, true
	}
	return 0, false
}
