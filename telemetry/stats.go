package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated combat statistics for a tick window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Live entity counts at window end
	Vehicles    int `csv:"vehicles"`
	Projectiles int `csv:"projectiles"`

	// Events during window
	ShotsFired    int     `csv:"shots_fired"`
	ShotsHit      int     `csv:"shots_hit"`
	Accuracy      float64 `csv:"accuracy"`
	Kills         int     `csv:"kills"`
	Deaths        int     `csv:"deaths"`
	Respawns      int     `csv:"respawns"`
	WallImpacts   int     `csv:"wall_impacts"`
	MinesLaid     int     `csv:"mines_laid"`
	DroppedSpawns int     `csv:"dropped_spawns"`
	DamageDealt   float64 `csv:"damage_dealt"`

	// HP distribution across live vehicles (sampled at window end)
	HPMean float64 `csv:"hp_mean"`
	HPStd  float64 `csv:"hp_std"`
	HPP10  float64 `csv:"hp_p10"`
	HPP50  float64 `csv:"hp_p50"`
	HPP90  float64 `csv:"hp_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeHPStats calculates mean, spread, and percentiles from HP values.
func ComputeHPStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"vehicles", s.Vehicles,
		"projectiles", s.Projectiles,
		"shots_fired", s.ShotsFired,
		"shots_hit", s.ShotsHit,
		"accuracy", s.Accuracy,
		"kills", s.Kills,
		"deaths", s.Deaths,
		"respawns", s.Respawns,
		"wall_impacts", s.WallImpacts,
		"mines_laid", s.MinesLaid,
		"dropped_spawns", s.DroppedSpawns,
		"damage_dealt", s.DamageDealt,
		"hp_mean", s.HPMean,
		"hp_std", s.HPStd,
		"hp_p10", s.HPP10,
		"hp_p50", s.HPP50,
		"hp_p90", s.HPP90,
	)
}
