package entity

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pthm-cable/warpath/components"
)

// Binary snapshot format. Bump the version whenever the slot or component
// layout changes; decoding rejects mismatched versions outright.
const (
	snapshotMagic   uint32 = 0x57505448 // "WPTH"
	snapshotVersion uint16 = 2
)

// writer accumulates little-endian fields with a sticky error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) put(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *writer) putF32(f float32) {
	w.put(math.Float32bits(f))
}

func (w *writer) putBool(b bool) {
	v := uint8(0)
	if b {
		v = 1
	}
	w.put(v)
}

func (w *writer) putVec(v components.Vec2) {
	w.putF32(v.X)
	w.putF32(v.Y)
}

func (w *writer) putHandle(h components.Handle) {
	w.put(h.Index)
	w.put(h.Gen)
}

// reader is the decoding counterpart of writer.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) get(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *reader) f32() float32 {
	var bits uint32
	r.get(&bits)
	return math.Float32frombits(bits)
}

func (r *reader) bool() bool {
	var v uint8
	r.get(&v)
	return v != 0
}

func (r *reader) vec() components.Vec2 {
	x := r.f32()
	y := r.f32()
	return components.Vec2{X: x, Y: y}
}

func (r *reader) handle() components.Handle {
	var h components.Handle
	r.get(&h.Index)
	r.get(&h.Gen)
	return h
}

// EncodeTo writes the complete store state: every slot's generation (live
// or not), the free list, and all live component data. Round-tripping
// preserves handle validity bit-exactly.
func (s *Store) EncodeTo(out io.Writer) error {
	w := &writer{w: out}

	w.put(snapshotMagic)
	w.put(snapshotVersion)
	w.put(uint32(len(s.slots)))
	w.put(uint32(s.high))
	w.put(uint32(s.count))

	w.put(uint32(len(s.free)))
	for _, idx := range s.free {
		w.put(idx)
	}

	for i := 0; i < s.high; i++ {
		sl := &s.slots[i]
		w.put(sl.gen)
		w.putBool(sl.live)
		w.put(uint8(sl.class))
		if !sl.live {
			continue
		}

		encodeTransform(w, &s.transforms[i])
		switch sl.class {
		case components.ClassVehicle:
			encodeVehicle(w, &s.vehicles[i])
		case components.ClassProjectile:
			encodeProjectile(w, &s.projectiles[i])
		case components.ClassEffect:
			encodeEffect(w, &s.effects[i])
		case components.ClassPickup:
			encodePickup(w, &s.pickups[i])
		}
	}

	if w.err != nil {
		return fmt.Errorf("encoding entity store: %w", w.err)
	}
	return nil
}

// DecodeFrom reads a snapshot produced by EncodeTo into a fresh store.
func DecodeFrom(in io.Reader) (*Store, error) {
	r := &reader{r: in}

	var magic uint32
	var version uint16
	r.get(&magic)
	r.get(&version)
	if r.err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", r.err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("bad snapshot magic %#x", magic)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", version, snapshotVersion)
	}

	var capacity, high, count, freeLen uint32
	r.get(&capacity)
	r.get(&high)
	r.get(&count)
	r.get(&freeLen)
	if r.err != nil {
		return nil, fmt.Errorf("reading snapshot sizes: %w", r.err)
	}
	if high > capacity || count > capacity || freeLen > capacity {
		return nil, fmt.Errorf("corrupt snapshot: high=%d count=%d free=%d cap=%d", high, count, freeLen, capacity)
	}

	s := NewStore(int(capacity))
	s.high = int(high)
	s.count = int(count)

	s.free = s.free[:0]
	for i := uint32(0); i < freeLen; i++ {
		var idx uint32
		r.get(&idx)
		if r.err == nil && idx >= high {
			return nil, fmt.Errorf("corrupt snapshot: free index %d out of range (high %d)", idx, high)
		}
		s.free = append(s.free, idx)
	}

	for i := 0; i < s.high; i++ {
		sl := &s.slots[i]
		r.get(&sl.gen)
		sl.live = r.bool()
		var class uint8
		r.get(&class)
		sl.class = components.Class(class)
		if r.err != nil {
			return nil, fmt.Errorf("reading slot %d: %w", i, r.err)
		}
		if !sl.live {
			continue
		}

		decodeTransform(r, &s.transforms[i])
		switch sl.class {
		case components.ClassVehicle:
			decodeVehicle(r, &s.vehicles[i])
		case components.ClassProjectile:
			decodeProjectile(r, &s.projectiles[i])
		case components.ClassEffect:
			decodeEffect(r, &s.effects[i])
		case components.ClassPickup:
			decodePickup(r, &s.pickups[i])
		default:
			return nil, fmt.Errorf("slot %d: unknown class %d", i, class)
		}
		if r.err != nil {
			return nil, fmt.Errorf("reading slot %d components: %w", i, r.err)
		}
	}

	// The free list must only name dead slots, or alloc would hand out a
	// handle aliasing a live entity.
	for _, idx := range s.free {
		if s.slots[idx].live {
			return nil, fmt.Errorf("corrupt snapshot: free index %d names a live slot", idx)
		}
	}

	return s, nil
}

func encodeTransform(w *writer, t *components.Transform) {
	w.putVec(t.Pos)
	w.putVec(t.Vel)
	w.putF32(t.Angle)
}

func decodeTransform(r *reader, t *components.Transform) {
	t.Pos = r.vec()
	t.Vel = r.vec()
	t.Angle = r.f32()
}

func encodeInput(w *writer, in *components.Input) {
	w.putF32(in.Steer)
	w.putF32(in.Throttle)
	w.putBool(in.Fire)
	w.put(in.WeaponSelect)
	w.putBool(in.PrevWeapon)
	w.putBool(in.NextWeapon)
	w.putBool(in.SelfDestruct)
}

func decodeInput(r *reader, in *components.Input) {
	in.Steer = r.f32()
	in.Throttle = r.f32()
	in.Fire = r.bool()
	r.get(&in.WeaponSelect)
	in.PrevWeapon = r.bool()
	in.NextWeapon = r.bool()
	in.SelfDestruct = r.bool()
}

func encodeVehicle(w *writer, v *components.VehicleState) {
	w.putF32(v.HP)
	w.putF32(v.TurnRate)
	w.put(v.Player)
	w.putBool(v.Bot)
	w.put(uint8(v.CurWeapon))
	w.putHandle(v.Missile)
	for i := range v.Ammo {
		w.put(v.Ammo[i].Rounds)
		w.put(v.Ammo[i].Refire)
		w.put(v.Ammo[i].Reload)
	}
	encodeInput(w, &v.Ctrl)
	w.putBool(v.InWater)
	w.putBool(v.Dead)
	w.put(v.RespawnTicks)
	w.put(v.Kills)
	w.put(v.Deaths)
}

func decodeVehicle(r *reader, v *components.VehicleState) {
	v.HP = r.f32()
	v.TurnRate = r.f32()
	r.get(&v.Player)
	v.Bot = r.bool()
	var kind uint8
	r.get(&kind)
	v.CurWeapon = components.WeaponKind(kind)
	v.Missile = r.handle()
	for i := range v.Ammo {
		r.get(&v.Ammo[i].Rounds)
		r.get(&v.Ammo[i].Refire)
		r.get(&v.Ammo[i].Reload)
	}
	decodeInput(r, &v.Ctrl)
	v.InWater = r.bool()
	v.Dead = r.bool()
	r.get(&v.RespawnTicks)
	r.get(&v.Kills)
	r.get(&v.Deaths)
}

func encodeProjectile(w *writer, p *components.ProjectileState) {
	w.put(uint8(p.Kind))
	w.putHandle(p.Owner)
	w.putVec(p.PrevPos)
	w.put(p.Life)
	w.putHandle(p.Target)
	w.putBool(p.Bomblet)
}

func decodeProjectile(r *reader, p *components.ProjectileState) {
	var kind uint8
	r.get(&kind)
	p.Kind = components.WeaponKind(kind)
	p.Owner = r.handle()
	p.PrevPos = r.vec()
	r.get(&p.Life)
	p.Target = r.handle()
	p.Bomblet = r.bool()
}

func encodeEffect(w *writer, e *components.EffectState) {
	w.put(uint8(e.Kind))
	w.put(e.Age)
	w.put(e.Duration)
	w.putF32(e.Scale)
	w.putVec(e.End)
}

func decodeEffect(r *reader, e *components.EffectState) {
	var kind uint8
	r.get(&kind)
	e.Kind = components.EffectKind(kind)
	r.get(&e.Age)
	r.get(&e.Duration)
	e.Scale = r.f32()
	e.End = r.vec()
}

func encodePickup(w *writer, p *components.PickupState) {
	w.put(uint8(p.Kind))
	w.putHandle(p.Owner)
	w.put(p.ArmDelay)
	w.putF32(p.TriggerRadius)
}

func decodePickup(r *reader, p *components.PickupState) {
	var kind uint8
	r.get(&kind)
	p.Kind = components.PickupKind(kind)
	p.Owner = r.handle()
	r.get(&p.ArmDelay)
	p.TriggerRadius = r.f32()
}
