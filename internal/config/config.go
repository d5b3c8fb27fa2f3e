// Package config provides YAML-based game configuration loading for the
// commando shooter.
package config

import (
	"errors"
	"fmt"
	"time"
)

// CommandoConfig contains all tunable parameters of the shooter simulation.
type CommandoConfig struct {
	Playfield  PlayfieldConfig  `yaml:"playfield"`
	Cannon     CannonConfig     `yaml:"cannon"`
	Bullets    BulletConfig     `yaml:"bullets"`
	Enemies    EnemyConfig      `yaml:"enemies"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Timing     TimingConfig     `yaml:"timing"`
}

// PlayfieldConfig defines the normalized coordinate space.
type PlayfieldConfig struct {
	Size float64 `yaml:"size"` // Both axes span [0, size)
}

// CannonConfig defines the player's cannon.
type CannonConfig struct {
	X      float64 `yaml:"x"`       // Fixed horizontal position
	StartY float64 `yaml:"start_y"` // Vertical position after reset
	MinY   float64 `yaml:"min_y"`   // Lowest aim/cannon y
	MaxY   float64 `yaml:"max_y"`   // Highest aim/cannon y
}

// BulletConfig defines projectile parameters.
type BulletConfig struct {
	Speed          float64  `yaml:"speed"`            // Units per frame
	MinAimDistance float64  `yaml:"min_aim_distance"` // Aim closer than this fires nothing
	Variants       []string `yaml:"variants"`
}

// EnemyConfig defines enemy spawning, motion and contact parameters.
type EnemyConfig struct {
	SpawnX            float64  `yaml:"spawn_x"`
	SpawnMinY         float64  `yaml:"spawn_min_y"`
	SpawnMaxY         float64  `yaml:"spawn_max_y"`
	BaseApproachRate  float64  `yaml:"base_approach_rate"` // Units per frame at multiplier 1
	ScoreAcceleration float64  `yaml:"score_acceleration"` // Extra units per frame per point
	LethalX           float64  `yaml:"lethal_x"`           // Reaching x <= lethal_x kills the player
	HitRadius         float64  `yaml:"hit_radius"`         // Bullets strictly closer than this hit
	Variants          []string `yaml:"variants"`
}

// DifficultyConfig defines the periodic speed ramp.
type DifficultyConfig struct {
	RampFactor float64 `yaml:"ramp_factor"` // Multiplier applied per ramp tick
	RampMax    float64 `yaml:"ramp_max"`    // Upper bound for the speed multiplier
}

// TimingConfig defines the survival window and the periods of the
// independently scheduled triggers.
type TimingConfig struct {
	SurvivalSeconds int           `yaml:"survival_seconds"`
	CountdownEvery  time.Duration `yaml:"countdown_every"`
	SpawnEvery      time.Duration `yaml:"spawn_every"`
	RampEvery       time.Duration `yaml:"ramp_every"`
	CollisionEvery  time.Duration `yaml:"collision_every"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid commando config")

// Validate checks the invariants the simulation relies on.
func (c CommandoConfig) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	size := c.Playfield.Size
	check(size > 0, "playfield.size must be positive, got %v", size)
	check(c.Cannon.X >= 0 && c.Cannon.X < size, "cannon.x (%v) must lie within [0, %v)", c.Cannon.X, size)
	check(c.Cannon.MinY >= 0 && c.Cannon.MaxY <= size, "cannon.min_y and max_y must lie within [0, %v]", size)
	check(c.Cannon.MinY <= c.Cannon.MaxY, "cannon.min_y (%v) must not exceed cannon.max_y (%v)", c.Cannon.MinY, c.Cannon.MaxY)
	check(c.Cannon.StartY >= c.Cannon.MinY && c.Cannon.StartY <= c.Cannon.MaxY,
		"cannon.start_y (%v) must lie within [min_y, max_y]", c.Cannon.StartY)
	check(c.Bullets.Speed > 0, "bullets.speed must be positive, got %v", c.Bullets.Speed)
	check(c.Bullets.MinAimDistance >= 0, "bullets.min_aim_distance must not be negative")
	check(len(c.Bullets.Variants) > 0, "bullets.variants must not be empty")
	check(c.Enemies.SpawnMinY <= c.Enemies.SpawnMaxY, "enemies.spawn_min_y must not exceed spawn_max_y")
	check(c.Enemies.SpawnMinY >= 0 && c.Enemies.SpawnMaxY <= size,
		"enemies.spawn_min_y and spawn_max_y must lie within [0, %v]", size)
	check(c.Enemies.SpawnX > 0 && c.Enemies.SpawnX <= size, "enemies.spawn_x (%v) must lie within (0, %v]", c.Enemies.SpawnX, size)
	check(c.Enemies.BaseApproachRate > 0, "enemies.base_approach_rate must be positive")
	check(c.Enemies.ScoreAcceleration >= 0, "enemies.score_acceleration must not be negative")
	check(c.Enemies.HitRadius > 0, "enemies.hit_radius must be positive")
	check(c.Enemies.LethalX < c.Enemies.SpawnX, "enemies.lethal_x must be left of spawn_x")
	check(len(c.Enemies.Variants) > 0, "enemies.variants must not be empty")
	check(c.Difficulty.RampFactor >= 1, "difficulty.ramp_factor must be at least 1, got %v", c.Difficulty.RampFactor)
	check(c.Difficulty.RampMax >= 1, "difficulty.ramp_max must be at least 1, got %v", c.Difficulty.RampMax)
	check(c.Timing.SurvivalSeconds > 0, "timing.survival_seconds must be positive")
	check(c.Timing.CountdownEvery > 0, "timing.countdown_every must be positive")
	check(c.Timing.SpawnEvery > 0, "timing.spawn_every must be positive")
	check(c.Timing.RampEvery > 0, "timing.ramp_every must be positive")
	check(c.Timing.CollisionEvery > 0, "timing.collision_every must be positive")

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}
