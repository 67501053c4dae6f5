package components

// Transform holds an entity's position and motion state.
// Every live entity carries one.
type Transform struct {
	Pos   Vec2    `inspect:"label,fmt:%v"`
	Vel   Vec2    `inspect:"label,fmt:%v"`
	Angle float32 `inspect:"angle"` // heading in radians, normalized to [0, 2*pi)
}
