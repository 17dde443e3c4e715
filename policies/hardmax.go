package policies

import (
	"github.com/zeu5/marl-env/types"
	"gonum.org/v1/gonum/floats"
)

// HardMaxPolicy converts the soft discrete actions of the wrapped policy to
// one-hot actions before they reach the environment (straight-through).
// The wrapped policy is updated with its own soft actions.
type HardMaxPolicy struct {
	Policy types.Policy
	soft   []types.Action
}

var _ types.Policy = &HardMaxPolicy{}

func NewHardMaxPolicy(p types.Policy) *HardMaxPolicy {
	return &HardMaxPolicy{Policy: p}
}

func (h *HardMaxPolicy) Reset() {
	h.soft = nil
	h.Policy.Reset()
}

func (h *HardMaxPolicy) UpdateIteration(iteration int, trace *types.Trace) {
	h.Policy.UpdateIteration(iteration, trace)
}

func (h *HardMaxPolicy) NextActions(step int, obs []types.Observation, spaces []types.Space) ([]types.Action, bool) {
	actions, ok := h.Policy.NextActions(step, obs, spaces)
	if !ok {
		return nil, false
	}
	h.soft = actions
	return SoftmaxToArgmax(actions, spaces), true
}

func (h *HardMaxPolicy) Update(step int, obs []types.Observation, actions []types.Action, transition *types.Transition) {
	if h.soft != nil && len(h.soft) == len(actions) {
		actions = h.soft
	}
	h.Policy.Update(step, obs, actions, transition)
}

// SoftmaxToArgmax replaces every discrete segment of the actions with the one-hot
// vector of its arg-max. Box segments and segments that do not match their space are
// copied unchanged. The input actions are not modified.
func SoftmaxToArgmax(actions []types.Action, spaces []types.Space) []types.Action {
	out := make([]types.Action, len(actions))
	for i, action := range actions {
		if i >= len(spaces) {
			out[i] = action.Copy()
			continue
		}
		out[i] = hardMax(action, spaces[i])
	}
	return out
}

func hardMax(action types.Action, space types.Space) types.Action {
	out := action.Copy()
	switch s := space.(type) {
	case *types.Discrete:
		if len(out) == 1 && len(out[0]) == s.N {
			oneHot(out[0])
		}
	case *types.MultiDiscrete:
		if len(out) != 1 || len(out[0]) != s.Size() {
			return out
		}
		index := 0
		for _, size := range s.Sizes() {
			oneHot(out[0][index : index+size])
			index += size
		}
	case *types.Tuple:
		if len(out) != len(s.Spaces) {
			return out
		}
		for j, member := range s.Spaces {
			out[j] = hardMax(types.Action{out[j]}, member)[0]
		}
	}
	return out
}

func oneHot(seg []float64) {
	if len(seg) == 0 {
		return
	}
	i := floats.MaxIdx(seg)
	for j := range seg {
		seg[j] = 0
	}
	seg[i] = 1
}
