package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/marl-env/types"
	"gonum.org/v1/gonum/floats"
)

var testSpaces = []types.Space{
	&types.Discrete{N: 5},
	&types.MultiDiscrete{Ranges: []types.DiscreteRange{{Low: 0, High: 4}, {Low: 0, High: 2}}},
	&types.Box{Low: -1, High: 1, Shape: []int{2}},
	&types.Tuple{Spaces: []types.Space{&types.Box{Low: -1, High: 1, Shape: []int{2}}, &types.Discrete{N: 3}}},
}

func TestRandomPolicyShapes(t *testing.T) {
	p := NewRandomPolicy(1)
	actions, ok := p.NextActions(0, nil, testSpaces)
	require.True(t, ok)
	require.Len(t, actions, 4)

	require.Len(t, actions[0], 1)
	assert.Equal(t, 1.0, floats.Sum(actions[0][0]))
	require.Len(t, actions[1], 1)
	assert.Len(t, actions[1][0], 8)
	assert.Equal(t, 1.0, floats.Sum(actions[1][0][:5]))
	assert.Equal(t, 1.0, floats.Sum(actions[1][0][5:]))
	for _, v := range actions[2][0] {
		assert.True(t, v >= -1 && v <= 1)
	}
	require.Len(t, actions[3], 2)
	assert.Len(t, actions[3][0], 2)
	assert.Len(t, actions[3][1], 3)
}

func TestRandomPolicyIsSeeded(t *testing.T) {
	a, _ := NewRandomPolicy(9).NextActions(0, nil, testSpaces)
	b, _ := NewRandomPolicy(9).NextActions(0, nil, testSpaces)
	assert.Equal(t, a, b)
}

func TestSoftRandomPolicy(t *testing.T) {
	p := NewSoftRandomPolicy(3)
	actions, ok := p.NextActions(0, nil, testSpaces[:1])
	require.True(t, ok)
	assert.InDelta(t, 1.0, floats.Sum(actions[0][0]), 1e-9)
}

func TestNoopPolicy(t *testing.T) {
	actions, ok := NewNoopPolicy().NextActions(0, nil, testSpaces)
	require.True(t, ok)
	assert.Equal(t, types.FlatAction(1, 0, 0, 0, 0), actions[0])
	assert.Equal(t, types.FlatAction(1, 0, 0, 0, 0, 1, 0, 0), actions[1])
	assert.Equal(t, types.FlatAction(0, 0), actions[2])
	assert.Equal(t, types.Action{{0, 0}, {1, 0, 0}}, actions[3])
}

func TestSoftmaxToArgmax(t *testing.T) {
	soft := []types.Action{
		types.FlatAction(0.1, 0.5, 0.2, 0.1, 0.1),
		types.FlatAction(0.1, 0.1, 0.1, 0.6, 0.1, 0.2, 0.3, 0.5),
		types.FlatAction(0.3, -0.2),
		{{0.3, -0.2}, {0.7, 0.2, 0.1}},
	}
	original := make([]types.Action, len(soft))
	for i, a := range soft {
		original[i] = a.Copy()
	}

	hard := SoftmaxToArgmax(soft, testSpaces)
	assert.Equal(t, types.FlatAction(0, 1, 0, 0, 0), hard[0])
	assert.Equal(t, types.FlatAction(0, 0, 0, 1, 0, 0, 0, 1), hard[1])
	assert.Equal(t, types.FlatAction(0.3, -0.2), hard[2])
	assert.Equal(t, types.Action{{0.3, -0.2}, {1, 0, 0}}, hard[3])
	assert.Equal(t, original, soft)
}

type recordingPolicy struct {
	*RandomPolicy
	updated []types.Action
}

func (r *recordingPolicy) Update(_ int, _ []types.Observation, actions []types.Action, _ *types.Transition) {
	r.updated = actions
}

func TestHardMaxPolicy(t *testing.T) {
	inner := &recordingPolicy{RandomPolicy: NewSoftRandomPolicy(5)}
	p := NewHardMaxPolicy(inner)

	actions, ok := p.NextActions(0, nil, testSpaces[:2])
	require.True(t, ok)
	assert.Equal(t, 1.0, floats.Sum(actions[0][0]))
	assert.Equal(t, 2.0, floats.Sum(actions[1][0]))

	p.Update(0, nil, actions, nil)
	require.Len(t, inner.updated, 2)
	assert.NotEqual(t, actions[0], inner.updated[0])
}
