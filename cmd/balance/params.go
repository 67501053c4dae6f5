// Package main provides CMA-ES search over weapon and bot tunables for
// combat pacing that matches a target profile.
package main

import (
	"github.com/pthm-cable/warpath/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Machine gun carries most of the fight; damage and cadence
			// set the baseline time-to-kill.
			{Name: "mg_damage", Path: "weapons.machine_gun.damage", Min: 2, Max: 14, Default: 8},
			{Name: "mg_refire", Path: "weapons.machine_gun.refire_ticks", Min: 3, Max: 14, Default: 6},
			{Name: "mg_spread", Path: "weapons.machine_gun.spread_sigma", Min: 0.01, Max: 0.08, Default: 0.03},
			// Burst weapons
			{Name: "railgun_damage", Path: "weapons.railgun.damage", Min: 20, Max: 80, Default: 40},
			{Name: "railgun_reload", Path: "weapons.railgun.reload_ticks", Min: 60, Max: 300, Default: 120},
			{Name: "rocket_damage", Path: "weapons.rocket.damage", Min: 10, Max: 50, Default: 25},
			{Name: "rocket_refire", Path: "weapons.rocket.refire_ticks", Min: 20, Max: 90, Default: 45},
			{Name: "cluster_damage", Path: "weapons.cluster_bomb.damage", Min: 4, Max: 25, Default: 12},
			{Name: "missile_turn", Path: "weapons.homing_missile.homing_turn", Min: 1.0, Max: 6.0, Default: 3.0},
			{Name: "mine_damage", Path: "weapons.mine.damage", Min: 20, Max: 90, Default: 50},
			// Survivability and bot competence shape engagement length.
			{Name: "max_hp", Path: "vehicle.max_hp", Min: 50, Max: 250, Default: 100},
			{Name: "bot_aim", Path: "bots.aim_tolerance", Min: 0.05, Max: 0.35, Default: 0.15},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. Order must
// match Specs order. ComputeDerived must run afterwards so projectile
// lifetimes track any range/speed edits.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Weapons.MachineGun.Damage = clamped[i]
	i++
	cfg.Weapons.MachineGun.RefireTicks = int(clamped[i])
	i++
	cfg.Weapons.MachineGun.SpreadSigma = clamped[i]
	i++
	cfg.Weapons.Railgun.Damage = clamped[i]
	i++
	cfg.Weapons.Railgun.ReloadTicks = int(clamped[i])
	i++
	cfg.Weapons.Rocket.Damage = clamped[i]
	i++
	cfg.Weapons.Rocket.RefireTicks = int(clamped[i])
	i++
	cfg.Weapons.ClusterBomb.Damage = clamped[i]
	i++
	cfg.Weapons.HomingMissile.HomingTurn = clamped[i]
	i++
	cfg.Weapons.Mine.Damage = clamped[i]
	i++
	cfg.Vehicle.MaxHP = clamped[i]
	i++
	cfg.Bots.AimTolerance = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Weapons.MachineGun.Damage,
		float64(cfg.Weapons.MachineGun.RefireTicks),
		cfg.Weapons.MachineGun.SpreadSigma,
		cfg.Weapons.Railgun.Damage,
		float64(cfg.Weapons.Railgun.ReloadTicks),
		cfg.Weapons.Rocket.Damage,
		float64(cfg.Weapons.Rocket.RefireTicks),
		cfg.Weapons.ClusterBomb.Damage,
		cfg.Weapons.HomingMissile.HomingTurn,
		cfg.Weapons.Mine.Damage,
		cfg.Vehicle.MaxHP,
		cfg.Bots.AimTolerance,
	}
}
