package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/commando.yaml
var defaultCommandoYAML []byte

// DefaultCommandoConfig returns the built-in shooter configuration.
func DefaultCommandoConfig() CommandoConfig {
	return CommandoConfig{
		Playfield: PlayfieldConfig{
			Size: 100,
		},
		Cannon: CannonConfig{
			X:      5,
			StartY: 50,
			MinY:   5,
			MaxY:   95,
		},
		Bullets: BulletConfig{
			Speed:          1.5,
			MinAimDistance: 0.1,
			Variants:       []string{"SOL", "ETH", "BNB", "AVAX", "USDC"},
		},
		Enemies: EnemyConfig{
			SpawnX:            100,
			SpawnMinY:         10,
			SpawnMaxY:         90,
			BaseApproachRate:  0.6,
			ScoreAcceleration: 0.03,
			LethalX:           3,
			HitRadius:         4,
			Variants:          []string{"alien", "alien2", "alien3"},
		},
		Difficulty: DifficultyConfig{
			RampFactor: 1.1,
			RampMax:    6,
		},
		Timing: TimingConfig{
			SurvivalSeconds: 60,
			CountdownEvery:  time.Second,
			SpawnEvery:      800 * time.Millisecond,
			RampEvery:       5 * time.Second,
			CollisionEvery:  16 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultCommandoYAML
}
