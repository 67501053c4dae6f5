package components

// ProjectileState is the mutable per-projectile component.
type ProjectileState struct {
	Kind WeaponKind

	// Owner is the firing vehicle, for damage attribution and the
	// self-hit policy. May go stale if the owner dies first; lookups
	// must tolerate that.
	Owner Handle `inspect:"skip"`

	// PrevPos is the position before this tick's integration; the
	// collision system casts the PrevPos->Pos segment against the map
	// so fast projectiles cannot tunnel through walls.
	PrevPos Vec2 `inspect:"skip"`

	// Life is the remaining lifetime in ticks; the projectile expires
	// when it reaches 0. Derived from the catalog range and speed.
	Life int32

	// Target is the homing lock, zero for unguided kinds.
	Target Handle `inspect:"skip"`

	// Bomblet marks a cluster submunition. The parent shell splits when
	// its fuse runs out; bomblets detonate instead.
	Bomblet bool
}
