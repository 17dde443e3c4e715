package policies

import "github.com/zeu5/marl-env/types"

// NoopPolicy chooses the first category of every discrete space and zeros for boxes.
// In the default decoding this leaves agents without force and silent.
type NoopPolicy struct{}

var _ types.Policy = &NoopPolicy{}

func NewNoopPolicy() *NoopPolicy {
	return &NoopPolicy{}
}

func (n *NoopPolicy) Reset() {}

func (n *NoopPolicy) UpdateIteration(_ int, _ *types.Trace) {}

func (n *NoopPolicy) Update(_ int, _ []types.Observation, _ []types.Action, _ *types.Transition) {}

func (n *NoopPolicy) NextActions(_ int, _ []types.Observation, spaces []types.Space) ([]types.Action, bool) {
	actions := make([]types.Action, len(spaces))
	for i, space := range spaces {
		actions[i] = noop(space)
	}
	return actions, true
}

func noop(space types.Space) types.Action {
	switch s := space.(type) {
	case *types.Discrete:
		seg := make([]float64, s.N)
		seg[0] = 1
		return types.Action{seg}
	case *types.MultiDiscrete:
		flat := make([]float64, 0, s.Size())
		for _, size := range s.Sizes() {
			seg := make([]float64, size)
			seg[0] = 1
			flat = append(flat, seg...)
		}
		return types.Action{flat}
	case *types.Tuple:
		action := make(types.Action, 0, len(s.Spaces))
		for _, member := range s.Spaces {
			action = append(action, noop(member)...)
		}
		return action
	}
	return types.Action{make([]float64, space.Size())}
}
