package commando

import "github.com/vovakirdan/tui-commando/internal/config"

// spawnEnemy places one enemy at the far edge in a random lane.
func spawnEnemy(s *Store, cfg config.EnemyConfig, rng RandomSource) uint64 {
	y := cfg.SpawnMinY + rng.Float64()*(cfg.SpawnMaxY-cfg.SpawnMinY)
	return s.AddEnemy(Enemy{
		X:       cfg.SpawnX,
		Y:       y,
		Variant: pick(rng, cfg.Variants),
	})
}
