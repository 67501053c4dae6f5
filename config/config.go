// Package config provides configuration loading and access for the simulation.
// Every gameplay constant lives here so it can be tuned at runtime without a
// rebuild; the tunables console writes straight into the loaded Config
// between ticks.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/warpath/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Weapons   WeaponsConfig   `yaml:"weapons"`
	Bots      BotsConfig      `yaml:"bots"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds map and entity capacity settings.
type WorldConfig struct {
	MapPath     string  `yaml:"map_path"` // PNG map; empty = built-in arena
	TileSize    float64 `yaml:"tile_size"`
	MaxEntities int     `yaml:"max_entities"` // Hard entity ceiling; spawns beyond it are dropped
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`             // Fixed tick length in seconds
	GridCellSize float64 `yaml:"grid_cell_size"` // Broad-phase cell edge in world units
}

// VehicleConfig holds vehicle movement and survivability parameters.
// The turning model carries angular momentum: input raises the turn rate,
// friction bleeds it, and the clamp caps it.
type VehicleConfig struct {
	TurnRateIncrease   float64 `yaml:"turn_rate_increase"`    // Turn rate gained per second of full steer
	TurnRateFrictionC  float64 `yaml:"turn_rate_friction_c"`  // Constant turn rate decay per second
	TurnRateFrictionL  float64 `yaml:"turn_rate_friction_l"`  // Linear turn rate decay fraction per second
	TurnRateMax        float64 `yaml:"turn_rate_max"`         // Radians per second
	AccelForward       float64 `yaml:"accel_forward"`
	AccelBackward      float64 `yaml:"accel_backward"`
	FrictionConst      float64 `yaml:"friction_const"`     // Constant speed decay per second
	FrictionLinear     float64 `yaml:"friction_linear"`    // Linear speed decay fraction per second
	SpeedMaxForward    float64 `yaml:"speed_max_forward"`
	SpeedMaxBackward   float64 `yaml:"speed_max_backward"`
	SteeringThreshold  float64 `yaml:"steering_threshold"` // Speed below which steering loses grip; 0 = turn in place
	SteeringCarry      float64 `yaml:"steering_carry"`     // Fraction of the turn applied to the velocity vector
	Radius             float64 `yaml:"radius"`             // Collision circle radius
	MaxHP              float64 `yaml:"max_hp"`
	WaterSpeedFactor   float64 `yaml:"water_speed_factor"` // Velocity multiplier while in water
	WallBounce         float64 `yaml:"wall_bounce"`        // Velocity multiplier on wall contact (negative reflects)
	RespawnDelayTicks  int     `yaml:"respawn_delay_ticks"`
	SelfDestructDamage float64 `yaml:"self_destruct_damage"`
	SelfDestructRadius float64 `yaml:"self_destruct_radius"`
}

// WeaponConfig holds one weapon's tunables.
type WeaponConfig struct {
	Damage       float64 `yaml:"damage"`        // Per projectile or per blast at zero distance
	Speed        float64 `yaml:"speed"`         // Muzzle speed; 0 = hitscan
	SpreadSigma  float64 `yaml:"spread_sigma"`  // Gaussian aim deviation in radians
	Pellets      int     `yaml:"pellets"`       // Projectiles per trigger pull
	RefireTicks  int     `yaml:"refire_ticks"`  // Ticks between shots within a magazine
	Magazine     int     `yaml:"magazine"`      // Rounds before a reload
	ReloadTicks  int     `yaml:"reload_ticks"`
	Range        float64 `yaml:"range"`         // Travel distance before expiry (hitscan: beam length)
	BlastRadius  float64 `yaml:"blast_radius"`  // 0 = direct damage only
	Falloff      string  `yaml:"falloff"`       // "linear" or "inverse_square"
	SelfHit      bool    `yaml:"self_hit"`      // Whether the owner takes blast damage
	InheritVel   bool    `yaml:"inherit_vel"`   // Projectile inherits the firing vehicle's velocity
	HomingTurn   float64 `yaml:"homing_turn"`   // Radians per second toward the lock; 0 = dumb
	GuideTurn    float64 `yaml:"guide_turn"`    // Radians per second under the owner's steer
	BeamRange    float64 `yaml:"beam_range"`    // BFG arc reach while the orb flies
	BeamDPS      float64 `yaml:"beam_dps"`      // BFG arc damage per second
	ClusterCount int     `yaml:"cluster_count"` // Bomblets released at fuse time
	FuseTicks    int     `yaml:"fuse_ticks"`    // Ticks before a cluster shell splits
	ArmTicks     int     `yaml:"arm_ticks"`     // Mine arming delay
	TriggerRange float64 `yaml:"trigger_range"` // Mine proximity trigger radius
}

// WeaponsConfig holds the full weapon catalog.
type WeaponsConfig struct {
	MachineGun    WeaponConfig `yaml:"machine_gun"`
	Railgun       WeaponConfig `yaml:"railgun"`
	ClusterBomb   WeaponConfig `yaml:"cluster_bomb"`
	Rocket        WeaponConfig `yaml:"rocket"`
	HomingMissile WeaponConfig `yaml:"homing_missile"`
	Mine          WeaponConfig `yaml:"mine"`
	GuidedMissile WeaponConfig `yaml:"guided_missile"`
	BFG           WeaponConfig `yaml:"bfg"`
}

// ByKind returns the catalog entry for a weapon kind.
func (w *WeaponsConfig) ByKind(kind components.WeaponKind) *WeaponConfig {
	switch kind {
	case components.WeaponMachineGun:
		return &w.MachineGun
	case components.WeaponRailgun:
		return &w.Railgun
	case components.WeaponClusterBomb:
		return &w.ClusterBomb
	case components.WeaponRocket:
		return &w.Rocket
	case components.WeaponHomingMissile:
		return &w.HomingMissile
	case components.WeaponMine:
		return &w.Mine
	case components.WeaponGuidedMissile:
		return &w.GuidedMissile
	case components.WeaponBFG:
		return &w.BFG
	default:
		panic(fmt.Sprintf("config: no catalog entry for weapon %v", kind))
	}
}

// BotsConfig holds bot controller parameters.
type BotsConfig struct {
	Count          int     `yaml:"count"`
	FireRange      float64 `yaml:"fire_range"`      // Max target distance to open fire
	AimTolerance   float64 `yaml:"aim_tolerance"`   // Max aim error in radians to open fire
	ThinkEvery     int     `yaml:"think_every"`     // Ticks between target reconsideration
	WanderStrength float64 `yaml:"wander_strength"` // Steering noise while no target
	SwitchChance   float64 `yaml:"switch_chance"`   // Chance per think tick to change weapon
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	WindowTicks int    `yaml:"window_ticks"` // Combat stats aggregation window
	PerfWindow  int    `yaml:"perf_window"`  // Samples per perf percentile window
	OutputDir   string `yaml:"output_dir"`
}

// Falloff selects how blast damage decays with distance from the center.
type Falloff uint8

const (
	FalloffLinear Falloff = iota
	FalloffInverseSquare
)

// WeaponDerived holds per-weapon values computed from the catalog.
type WeaponDerived struct {
	Falloff   Falloff
	LifeTicks int32 // Ticks a projectile lives before expiring at max range
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Physics.DT as float32
	TickRate float64 // Ticks per second
	Weapons  [components.WeaponCount]WeaponDerived
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.ComputeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ComputeDerived recalculates derived values. Call it again after editing
// weapon tunables at runtime so falloff modes and lifetimes stay current.
func (c *Config) ComputeDerived() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.World.MaxEntities <= 0 {
		return fmt.Errorf("world.max_entities must be positive, got %d", c.World.MaxEntities)
	}
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.TickRate = 1.0 / c.Physics.DT

	for kind := components.WeaponKind(0); kind < components.WeaponCount; kind++ {
		wc := c.Weapons.ByKind(kind)
		d := &c.Derived.Weapons[kind]

		switch wc.Falloff {
		case "", "linear":
			d.Falloff = FalloffLinear
		case "inverse_square":
			d.Falloff = FalloffInverseSquare
		default:
			return fmt.Errorf("weapon %v: unknown falloff %q", kind, wc.Falloff)
		}

		if wc.Speed > 0 {
			ticks := wc.Range / (wc.Speed * c.Physics.DT)
			d.LifeTicks = int32(ticks)
			if float64(d.LifeTicks) < ticks {
				d.LifeTicks++
			}
		} else {
			d.LifeTicks = 0
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
