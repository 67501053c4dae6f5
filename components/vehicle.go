package components

// Input is the per-tick control signal for one vehicle. Human players and
// bots produce the identical shape; physics and weapons never know which
// source filled it in.
type Input struct {
	// Steer is the turning input in [-1, 1]; negative turns left.
	Steer float32
	// Throttle is the drive input in [-1, 1]; negative reverses.
	Throttle float32
	// Fire requests the current weapon to fire.
	Fire bool
	// WeaponSelect directly selects a weapon; -1 means no change.
	WeaponSelect int8
	// PrevWeapon/NextWeapon cycle the current weapon on a rising edge.
	PrevWeapon bool
	NextWeapon bool
	// SelfDestruct blows up the vehicle in place.
	SelfDestruct bool
}

// EmptyInput is the neutral input applied when no controller is attached.
var EmptyInput = Input{WeaponSelect: -1}

// AmmoState tracks one weapon's magazine on a vehicle.
type AmmoState struct {
	// Rounds left in the magazine. Railguns and other weapons with an
	// ammo budget of 0 in the catalog never consume rounds.
	Rounds int16
	// Refire is the cooldown in ticks until the weapon can fire again.
	Refire int32
	// Reload is the ticks remaining until an empty magazine refills;
	// 0 when not reloading.
	Reload int32
}

// VehicleState is the mutable per-vehicle component.
type VehicleState struct {
	// HP is current health. Clamped to [0, max]; 0 marks the vehicle
	// dead for the end-of-tick reaping pass, it is never negative.
	HP float32 `inspect:"bar,max:100"`
	// TurnRate is the current angular velocity in radians/sec.
	// Integrated separately from Transform.Angle so turn friction
	// behaves like the drive friction model.
	TurnRate float32 `inspect:"label,fmt:%.2f"`

	// Player is the owning local player id, or a bot id offset past the
	// player count.
	Player uint8
	// Bot marks the vehicle as bot-controlled.
	Bot bool

	CurWeapon WeaponKind
	Ammo      [WeaponCount]AmmoState `inspect:"skip"`

	// Missile is the live guided missile answering this vehicle's steer
	// input. While it is set the hull ignores drive input; launching
	// another missile transfers guidance and the old one flies straight.
	Missile Handle `inspect:"skip"`

	// Ctrl is the input gathered for this tick. Overwritten every tick
	// before physics runs.
	Ctrl Input `inspect:"skip"`

	// InWater caches the terrain class under the hull, set by physics
	// each tick and read by rendering.
	InWater bool

	// Dead marks the vehicle as a wreck. Systems skip dead vehicles but
	// the entity persists so the hull stays visible until respawn.
	Dead bool

	// RespawnTicks counts down while Dead; the vehicle respawns when it
	// reaches 0.
	RespawnTicks int32

	// Kills and Deaths accumulate over the whole match, surviving
	// respawns. A suicide counts as a death but credits no kill.
	Kills  uint16 `inspect:"label,fmt:%d"`
	Deaths uint16 `inspect:"label,fmt:%d"`
}

// Alive reports whether the vehicle is still simulated this tick.
func (v *VehicleState) Alive() bool {
	return !v.Dead
}
