package commando

// approachStep is how far every enemy moves left in one frame. The speed
// multiplier and the score both push it up, additively.
func approachStep(base, multiplier float64, score int, perPoint float64) float64 {
	return base*multiplier + float64(score)*perPoint
}

// inPlayfield reports whether a point lies in [0, size) on both axes.
func inPlayfield(x, y, size float64) bool {
	return x >= 0 && x < size && y >= 0 && y < size
}

// integrate advances every entity by one frame. Bullets that leave the
// playfield are dropped. Enemies at or past lethalX are dropped and counted;
// the caller turns a non-zero count into a single death.
func integrate(s *Store, size, step, lethalX float64) (crossed int) {
	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		b.X += b.VX
		b.Y += b.VY
		if inPlayfield(b.X, b.Y, size) {
			bullets = append(bullets, b)
		}
	}
	s.Bullets = bullets

	enemies := s.Enemies[:0]
	for _, e := range s.Enemies {
		e.X -= step
		if e.X <= lethalX {
			crossed++
			continue
		}
		enemies = append(enemies, e)
	}
	s.Enemies = enemies
	return crossed
}
