// Package components defines the plain data types stored per entity and the
// control input shape shared by human players and bots.
package components

// Handle is a generation-checked reference to an entity slot.
// A handle is valid iff its generation matches the slot's current
// generation; handles to removed entities fail lookups instead of
// aliasing a recycled slot.
type Handle struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether h is the zero handle. Generation counters start
// at 1, so the zero value never refers to a live entity.
func (h Handle) IsZero() bool {
	return h.Gen == 0
}

// Class tags which component bundle an entity carries.
type Class uint8

const (
	ClassNone Class = iota
	ClassVehicle
	ClassProjectile
	ClassEffect
	ClassPickup
)

func (c Class) String() string {
	switch c {
	case ClassVehicle:
		return "vehicle"
	case ClassProjectile:
		return "projectile"
	case ClassEffect:
		return "effect"
	case ClassPickup:
		return "pickup"
	default:
		return "none"
	}
}

// WeaponKind is the closed set of weapon types. Behavior differences are
// matched explicitly on this tag; shared numeric parameters live in the
// weapons.Spec catalog.
type WeaponKind uint8

const (
	WeaponMachineGun WeaponKind = iota
	WeaponRailgun
	WeaponClusterBomb
	WeaponRocket
	WeaponHomingMissile
	WeaponMine
	WeaponGuidedMissile
	WeaponBFG

	WeaponCount = 8
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponMachineGun:
		return "machine_gun"
	case WeaponRailgun:
		return "railgun"
	case WeaponClusterBomb:
		return "cluster_bomb"
	case WeaponRocket:
		return "rocket"
	case WeaponHomingMissile:
		return "homing_missile"
	case WeaponMine:
		return "mine"
	case WeaponGuidedMissile:
		return "guided_missile"
	case WeaponBFG:
		return "bfg"
	default:
		return "unknown"
	}
}

// Next returns the weapon after k, wrapping around.
func (k WeaponKind) Next() WeaponKind {
	return (k + 1) % WeaponCount
}

// Prev returns the weapon before k, wrapping around.
func (k WeaponKind) Prev() WeaponKind {
	return (k + WeaponCount - 1) % WeaponCount
}

// EffectKind tags transient visual/area entities.
type EffectKind uint8

const (
	EffectExplosion EffectKind = iota
	EffectRailBeam
	EffectBfgBeam
)

// PickupKind tags static trigger entities.
type PickupKind uint8

const (
	PickupMine PickupKind = iota
)
