package commando

import "math"

// rampSpeed applies one difficulty step, never exceeding max.
func rampSpeed(current, factor, max float64) float64 {
	return math.Min(current*factor, max)
}
