package multiagent

import "gonum.org/v1/gonum/floats"

// aggregateRewards computes the group total. In the fully cooperative setting every
// agent receives the total, otherwise individual rewards are returned unchanged.
// The input slice is not modified.
func aggregateRewards(rewards []float64, shared bool) ([]float64, float64) {
	total := floats.Sum(rewards)
	out := make([]float64, len(rewards))
	if shared {
		for i := range out {
			out[i] = total
		}
		return out, total
	}
	copy(out, rewards)
	return out, total
}
