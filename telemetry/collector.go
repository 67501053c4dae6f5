// Package telemetry aggregates combat and performance statistics over
// fixed tick windows and writes them as CSV for offline analysis.
package telemetry

import "github.com/pthm-cable/warpath/components"

// Collector accumulates combat events within tick windows and produces
// WindowStats. Recording is cheap counter bumps; all aggregation happens
// at flush.
type Collector struct {
	windowTicks     uint64
	dt              float64
	windowStartTick uint64

	// Event counters for current window
	shots       [components.WeaponCount]int
	hits        [components.WeaponCount]int
	kills       int
	deaths      int
	respawns    int
	wallImpacts int
	minesLaid   int
	dropped     int
	damage      float64
}

// NewCollector creates a stats collector.
// windowTicks: ticks per stats window. dt: seconds per tick.
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks), dt: dt}
}

// RecordShot records one projectile (or beam) leaving a weapon.
func (c *Collector) RecordShot(kind components.WeaponKind) {
	c.shots[kind]++
}

// RecordHit records a shot connecting with a vehicle.
func (c *Collector) RecordHit(kind components.WeaponKind) {
	c.hits[kind]++
}

// RecordKill records a vehicle destroyed by weapon fire.
func (c *Collector) RecordKill() {
	c.kills++
}

// RecordDeath records a vehicle death from any cause.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordRespawn records a wreck returning to play.
func (c *Collector) RecordRespawn() {
	c.respawns++
}

// RecordWallImpact records a projectile ending on terrain.
func (c *Collector) RecordWallImpact() {
	c.wallImpacts++
}

// RecordMineLaid records a mine placed on the field.
func (c *Collector) RecordMineLaid() {
	c.minesLaid++
}

// RecordDroppedSpawn records an entity spawn refused at the capacity
// ceiling.
func (c *Collector) RecordDroppedSpawn() {
	c.dropped++
}

// RecordDamage records damage actually applied to a vehicle, after the
// HP floor clamp.
func (c *Collector) RecordDamage(amount float64) {
	c.damage += amount
}

// WeaponUsage returns the per-weapon shot and hit counters for the
// current window. Balance tooling reads these; the regular CSV output
// only carries the aggregates.
func (c *Collector) WeaponUsage() (shots, hits [components.WeaponCount]int) {
	return c.shots, c.hits
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// vehicles/projectiles are live counts at window end; hpValues are the
// current HP of live vehicles, for the distribution columns.
func (c *Collector) Flush(currentTick uint64, vehicles, projectiles int, hpValues []float64) WindowStats {
	var shots, hits int
	for kind := range c.shots {
		shots += c.shots[kind]
		hits += c.hits[kind]
	}

	var accuracy float64
	if shots > 0 {
		accuracy = float64(hits) / float64(shots)
	}

	hpMean, hpStd, hpP10, hpP50, hpP90 := ComputeHPStats(hpValues)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Vehicles:    vehicles,
		Projectiles: projectiles,

		ShotsFired:    shots,
		ShotsHit:      hits,
		Accuracy:      accuracy,
		Kills:         c.kills,
		Deaths:        c.deaths,
		Respawns:      c.respawns,
		WallImpacts:   c.wallImpacts,
		MinesLaid:     c.minesLaid,
		DroppedSpawns: c.dropped,
		DamageDealt:   c.damage,

		HPMean: hpMean,
		HPStd:  hpStd,
		HPP10:  hpP10,
		HPP50:  hpP50,
		HPP90:  hpP90,
	}

	c.windowStartTick = currentTick
	c.shots = [components.WeaponCount]int{}
	c.hits = [components.WeaponCount]int{}
	c.kills = 0
	c.deaths = 0
	c.respawns = 0
	c.wallImpacts = 0
	c.minesLaid = 0
	c.dropped = 0
	c.damage = 0

	return stats
}
