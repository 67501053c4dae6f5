package components

// EffectState is the component for transient entities (explosions, beams).
// Effects take no part in collision; they age out and are reaped.
type EffectState struct {
	Kind EffectKind

	// Age in ticks since spawn; Duration is the total lifetime.
	Age      int32
	Duration int32

	// Scale of the drawn sprite/circle (explosions).
	Scale float32 `inspect:"label,fmt:%.1f"`

	// End is the far endpoint for beam effects; unused otherwise.
	End Vec2 `inspect:"skip"`
}

// PickupState is the component for static trigger entities.
type PickupState struct {
	Kind PickupKind

	// Owner is the vehicle that planted the pickup (mines), for damage
	// attribution. Zero for world-spawned pickups.
	Owner Handle `inspect:"skip"`

	// ArmDelay is the ticks remaining before the trigger goes live, so
	// a mine cannot detonate under the vehicle that just planted it.
	ArmDelay int32

	// TriggerRadius is the activation distance in world units.
	TriggerRadius float32
}

// Armed reports whether the pickup's trigger is live.
func (p *PickupState) Armed() bool {
	return p.ArmDelay <= 0
}
