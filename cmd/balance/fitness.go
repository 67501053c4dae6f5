package main

import (
	"fmt"
	"math"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/game"
	"github.com/pthm-cable/warpath/telemetry"
)

// Targets describes the combat pacing the search aims for.
type Targets struct {
	KillsPerMinute float64 // Kills across the whole lobby per sim minute
	Accuracy       float64 // Fraction of shots that connect
}

// Fitness component weights.
const (
	weightPace     = 1.0
	weightAccuracy = 0.8
	weightUsage    = 0.5

	// A run with no kills says nothing about pacing; penalize it past
	// anything a bad-but-live config can score.
	deadMatchPenalty = 100.0
)

// matchResult holds the aggregate outcome of one headless match.
type matchResult struct {
	stats telemetry.WindowStats
	shots [components.WeaponCount]int
	hits  [components.WeaponCount]int
}

// Evaluator runs headless bot matches and scores parameter vectors.
// Sessions read the process-global config, so evaluations apply their
// parameters to it and run strictly sequentially.
type Evaluator struct {
	params  *ParamVector
	grid    *arena.Grid
	ticks   uint64
	bots    int
	seeds   []uint64
	targets Targets

	lastKPM      float64
	lastAccuracy float64
}

// NewEvaluator creates an evaluator running each vector over the given
// seeds for the given tick count.
func NewEvaluator(params *ParamVector, grid *arena.Grid, ticks uint64, bots int, seeds []uint64, targets Targets) *Evaluator {
	return &Evaluator{
		params:  params,
		grid:    grid,
		ticks:   ticks,
		bots:    bots,
		seeds:   seeds,
		targets: targets,
	}
}

// LastPacing returns the kills-per-minute and accuracy of the most recent
// evaluation, for progress output.
func (e *Evaluator) LastPacing() (kpm, accuracy float64) {
	return e.lastKPM, e.lastAccuracy
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (e *Evaluator) Evaluate(x []float64) float64 {
	cfg := config.Cfg()
	e.params.ApplyToConfig(cfg, x)
	// Periodic flushes would reset the counters mid-run; the evaluator
	// flushes once itself at match end.
	cfg.Telemetry.Enabled = false
	if err := cfg.ComputeDerived(); err != nil {
		panic(fmt.Sprintf("balance: derived config: %v", err))
	}

	var total float64
	var kpmSum, accSum float64
	for _, seed := range e.seeds {
		result, err := e.runMatch(seed)
		if err != nil {
			panic(fmt.Sprintf("balance: match failed: %v", err))
		}
		total += e.score(result)

		minutes := result.stats.SimTimeSec / 60
		if minutes > 0 {
			kpmSum += float64(result.stats.Kills) / minutes
		}
		accSum += result.stats.Accuracy
	}

	n := float64(len(e.seeds))
	e.lastKPM = kpmSum / n
	e.lastAccuracy = accSum / n
	return total / n
}

// runMatch executes one headless bot match and collects its stats.
func (e *Evaluator) runMatch(seed uint64) (*matchResult, error) {
	s, err := game.NewSession(e.grid, seed, 0, e.bots)
	if err != nil {
		return nil, err
	}

	for i := uint64(0); i < e.ticks; i++ {
		s.Tick()
	}

	result := &matchResult{}
	result.shots, result.hits = s.Collector().WeaponUsage()

	vehicles := 0
	var hp []float64
	s.Store().ForEachVehicle(func(_ components.Handle, _ *components.Transform, v *components.VehicleState) {
		vehicles++
		if v.Alive() {
			hp = append(hp, float64(v.HP))
		}
	})
	result.stats = s.Collector().Flush(s.TickCount(), vehicles, 0, hp)
	return result, nil
}

// score converts one match into a scalar penalty (lower = better).
func (e *Evaluator) score(r *matchResult) float64 {
	minutes := r.stats.SimTimeSec / 60
	if minutes <= 0 || r.stats.Kills == 0 {
		return deadMatchPenalty
	}

	kpm := float64(r.stats.Kills) / minutes
	paceErr := math.Log(kpm / e.targets.KillsPerMinute)

	accErr := r.stats.Accuracy - e.targets.Accuracy

	// Usage entropy in [0, 1]; 1 means every weapon fired evenly.
	usageErr := 1 - usageEntropy(r.shots)

	return weightPace*paceErr*paceErr +
		weightAccuracy*accErr*accErr +
		weightUsage*usageErr*usageErr
}

// usageEntropy returns the normalized Shannon entropy of per-weapon shot
// counts.
func usageEntropy(shots [components.WeaponCount]int) float64 {
	total := 0
	for _, n := range shots {
		total += n
	}
	if total == 0 {
		return 0
	}

	var h float64
	for _, n := range shots {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(components.WeaponCount))
}
