package commando

import "github.com/vovakirdan/tui-commando/internal/core"

// resolveCollisions pairs bullets with enemies and removes both sides of
// every pair. Enemies are visited in insertion order and each takes the
// first remaining bullet (in bullet order) strictly within radius. This is
// a greedy first-match, not a nearest-match: a closer bullet later in the
// list loses to an earlier one that is merely in range.
func resolveCollisions(s *Store, radius float64) (hits int) {
	if len(s.Bullets) == 0 || len(s.Enemies) == 0 {
		return 0
	}

	bullets := make([]Bullet, len(s.Bullets))
	copy(bullets, s.Bullets)

	survivors := s.Enemies[:0]
	for _, e := range s.Enemies {
		idx := -1
		for i, b := range bullets {
			if core.WithinRadius(b.X, b.Y, e.X, e.Y, radius) {
				idx = i
				break
			}
		}
		if idx < 0 {
			survivors = append(survivors, e)
			continue
		}
		bullets = append(bullets[:idx], bullets[idx+1:]...)
		hits++
	}

	s.Enemies = survivors
	s.Bullets = bullets
	return hits
}
