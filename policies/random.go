// Package policies contains non learning policies used to drive environments
package policies

import (
	"math"
	"time"

	"github.com/zeu5/marl-env/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// RandomPolicy samples every action uniformly from its space.
// When Soft is set discrete segments are random probability vectors instead of one-hot vectors.
type RandomPolicy struct {
	Soft bool
	src  rand.Source
	rand *rand.Rand
}

var _ types.Policy = &RandomPolicy{}

// NewRandomPolicy with the given seed, 0 uses the current time
func NewRandomPolicy(seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)
	return &RandomPolicy{
		src:  src,
		rand: rand.New(src),
	}
}

// NewSoftRandomPolicy samples probability vectors for discrete spaces
func NewSoftRandomPolicy(seed uint64) *RandomPolicy {
	r := NewRandomPolicy(seed)
	r.Soft = true
	return r
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateIteration(_ int, _ *types.Trace) {}

func (r *RandomPolicy) Update(_ int, _ []types.Observation, _ []types.Action, _ *types.Transition) {}

func (r *RandomPolicy) NextActions(_ int, _ []types.Observation, spaces []types.Space) ([]types.Action, bool) {
	actions := make([]types.Action, len(spaces))
	for i, space := range spaces {
		action, ok := r.sample(space)
		if !ok {
			return nil, false
		}
		actions[i] = action
	}
	return actions, true
}

func (r *RandomPolicy) sample(space types.Space) (types.Action, bool) {
	switch s := space.(type) {
	case *types.Discrete:
		seg, ok := r.discrete(s.N)
		return types.Action{seg}, ok
	case *types.MultiDiscrete:
		flat := make([]float64, 0, s.Size())
		for _, size := range s.Sizes() {
			seg, ok := r.discrete(size)
			if !ok {
				return nil, false
			}
			flat = append(flat, seg...)
		}
		return types.Action{flat}, true
	case *types.Box:
		return types.Action{r.box(s)}, true
	case *types.Tuple:
		action := make(types.Action, 0, len(s.Spaces))
		for _, member := range s.Spaces {
			a, ok := r.sample(member)
			if !ok {
				return nil, false
			}
			action = append(action, a...)
		}
		return action, true
	}
	return nil, false
}

func (r *RandomPolicy) discrete(n int) ([]float64, bool) {
	seg := make([]float64, n)
	if r.Soft {
		for i := range seg {
			seg[i] = r.rand.Float64()
		}
		sum := floats.Sum(seg)
		if sum == 0 {
			return nil, false
		}
		floats.Scale(1/sum, seg)
		return seg, true
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	i, ok := sampleuv.NewWeighted(weights, r.src).Take()
	if !ok {
		return nil, false
	}
	seg[i] = 1
	return seg, true
}

// box samples within the bounds, unbounded dimensions use [-1, 1]
func (r *RandomPolicy) box(b *types.Box) []float64 {
	low, high := b.Low, b.High
	if math.IsInf(low, 0) {
		low = -1
	}
	if math.IsInf(high, 0) {
		high = 1
	}
	out := make([]float64, b.Size())
	for i := range out {
		out[i] = low + (high-low)*r.rand.Float64()
	}
	return out
}
