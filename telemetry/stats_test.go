package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/warpath/components"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	if got := Percentile(sorted, 0.5); got != 30 {
		t.Errorf("P50 = %v, want 30", got)
	}
	if got := Percentile(sorted, 0); got != 10 {
		t.Errorf("P0 = %v, want 10", got)
	}
	if got := Percentile(sorted, 1); got != 50 {
		t.Errorf("P100 = %v, want 50", got)
	}
	// Interpolated: 0.9 * 4 = 3.6 -> between 40 and 50
	if got := Percentile(sorted, 0.9); math.Abs(got-46) > 1e-9 {
		t.Errorf("P90 = %v, want 46", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("empty P50 = %v, want 0", got)
	}
}

func TestComputeHPStats(t *testing.T) {
	mean, std, _, p50, _ := ComputeHPStats([]float64{100, 50, 75, 25})
	if mean != 62.5 {
		t.Errorf("mean = %v, want 62.5", mean)
	}
	if std == 0 {
		t.Error("std = 0 for spread values")
	}
	if p50 != 62.5 {
		t.Errorf("p50 = %v, want 62.5", p50)
	}

	mean, std, _, _, _ = ComputeHPStats(nil)
	if mean != 0 || std != 0 {
		t.Error("empty input should yield zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(100, 1.0/60)

	c.RecordShot(components.WeaponMachineGun)
	c.RecordShot(components.WeaponMachineGun)
	c.RecordShot(components.WeaponRocket)
	c.RecordHit(components.WeaponRocket)
	c.RecordKill()
	c.RecordDeath()
	c.RecordDamage(25)
	c.RecordDroppedSpawn()

	if c.ShouldFlush(99) {
		t.Error("flush requested before the window elapsed")
	}
	if !c.ShouldFlush(100) {
		t.Error("flush not requested at window end")
	}

	s := c.Flush(100, 4, 7, []float64{100, 50})
	if s.ShotsFired != 3 || s.ShotsHit != 1 {
		t.Errorf("shots = %d/%d, want 3/1", s.ShotsHit, s.ShotsFired)
	}
	if math.Abs(s.Accuracy-1.0/3) > 1e-9 {
		t.Errorf("accuracy = %v, want 1/3", s.Accuracy)
	}
	if s.Kills != 1 || s.Deaths != 1 || s.DamageDealt != 25 || s.DroppedSpawns != 1 {
		t.Errorf("counters wrong: %+v", s)
	}
	if s.Vehicles != 4 || s.Projectiles != 7 {
		t.Errorf("entity counts wrong: %+v", s)
	}
	if s.HPMean != 75 {
		t.Errorf("hp_mean = %v, want 75", s.HPMean)
	}

	// Flush resets counters and rolls the window forward.
	s2 := c.Flush(200, 0, 0, nil)
	if s2.ShotsFired != 0 || s2.Kills != 0 || s2.DamageDealt != 0 {
		t.Errorf("counters survived flush: %+v", s2)
	}
	if s2.WindowStartTick != 100 {
		t.Errorf("window start = %d, want 100", s2.WindowStartTick)
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(8)

	for i := 0; i < 3; i++ {
		p.StartTick()
		p.StartPhase(PhaseMovement)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseCollision)
		time.Sleep(time.Millisecond)
		p.EndTick()
	}

	s := p.Stats()
	if s.AvgTickDuration <= 0 {
		t.Error("no average tick duration recorded")
	}
	if s.PhaseAvg[PhaseMovement] <= 0 || s.PhaseAvg[PhaseCollision] <= 0 {
		t.Errorf("phase averages missing: %+v", s.PhaseAvg)
	}
	if s.MaxTickDuration < s.MinTickDuration {
		t.Error("max tick below min tick")
	}

	csv := s.ToCSV(600)
	if csv.WindowEnd != 600 || csv.AvgTickUS < 0 {
		t.Errorf("csv conversion wrong: %+v", csv)
	}
}
