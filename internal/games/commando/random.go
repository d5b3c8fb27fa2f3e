package commando

import "math/rand"

// RandomSource supplies randomness for spawn lanes and visual variants.
// Tests inject a scripted source to make spawns deterministic.
type RandomSource interface {
	Float64() float64 // Uniform in [0, 1)
	Intn(n int) int   // Uniform in [0, n)
}

// NewRandom returns a RandomSource seeded with seed.
func NewRandom(seed int64) RandomSource {
	//#nosec G404 -- game randomness, not security sensitive
	return rand.New(rand.NewSource(seed))
}

func pick(rng RandomSource, variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	return variants[rng.Intn(len(variants))]
}
