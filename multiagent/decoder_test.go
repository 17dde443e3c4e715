package multiagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/marl-env/types"
)

func TestDiscreteFiveWayDecode(t *testing.T) {
	cases := []struct {
		index int
		u     []float64
	}{
		{0, []float64{0, 0}},
		{1, []float64{5, 0}},
		{2, []float64{-5, 0}},
		{3, []float64{0, 5}},
		{4, []float64{0, -5}},
	}
	for _, c := range cases {
		w := newTestWorld(1, 0, true)
		env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

		vec := make([]float64, 5)
		vec[c.index] = 1
		_, err := env.Step([]types.Action{types.FlatAction(vec...)})
		require.NoError(t, err)
		assert.Equal(t, c.u, w.Agents()[0].Action.U, "index %d", c.index)
	}
}

func TestAccelScalesCommand(t *testing.T) {
	w := newTestWorld(1, 0, true)
	accel := 2.0
	w.Agents()[0].Accel = &accel
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	_, err := env.Step([]types.Action{types.FlatAction(0, 0, 0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, w.Agents()[0].Action.U)
}

func TestZeroAccelDisablesMovement(t *testing.T) {
	w := newTestWorld(1, 0, true)
	accel := 0.0
	w.Agents()[0].Accel = &accel
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	_, err := env.Step([]types.Action{types.FlatAction(0, 0, 0, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, w.Agents()[0].Action.U)
}

func TestContinuousWithoutCommunicationChannels(t *testing.T) {
	w := newTestWorld(1, 0, false)
	env := newTestEnv(t, w, &testScenario{}, Config{})
	require.Equal(t, "Tuple(Box(-1, 1, [2]), Box(0, 1, [0]))", env.ActionSpace()[0].String())

	_, err := env.Step([]types.Action{{{0.5, 0}, {}}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 0}, w.Agents()[0].Action.U)
	assert.Empty(t, w.Agents()[0].Action.C)

	_, err = env.Step([]types.Action{{{0.5, 0}}})
	assert.ErrorIs(t, err, types.ErrActionShape)
}

func TestForceDiscreteMatchesOneHot(t *testing.T) {
	forced := newTestWorld(1, 0, true)
	forced.ForceDiscrete = true
	forcedEnv := newTestEnv(t, forced, &testScenario{}, DefaultConfig())

	plain := newTestWorld(1, 0, true)
	plainEnv := newTestEnv(t, plain, &testScenario{}, DefaultConfig())

	action := types.FlatAction(0.1, 0.9, 0.2, 0, 0)
	original := action.Copy()
	_, err := forcedEnv.Step([]types.Action{action})
	require.NoError(t, err)
	_, err = plainEnv.Step([]types.Action{types.FlatAction(0, 1, 0, 0, 0)})
	require.NoError(t, err)

	assert.Equal(t, plain.Agents()[0].Action.U, forced.Agents()[0].Action.U)
	assert.Equal(t, []float64{5, 0}, forced.Agents()[0].Action.U)
	assert.Equal(t, original, action)
}

func TestMultiDiscreteConsumption(t *testing.T) {
	w := newTestWorld(1, 3, false)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	t.Run("exact", func(t *testing.T) {
		_, err := env.Step([]types.Action{types.FlatAction(0, 0, 0, 1, 0, 0, 1, 0)})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 5}, w.Agents()[0].Action.U)
		assert.Equal(t, []float64{0, 1, 0}, w.Agents()[0].Action.C)
		assert.Equal(t, []float64{0, 1, 0}, w.Agents()[0].C)
	})

	t.Run("leftover segment", func(t *testing.T) {
		action := types.Action{{0, 0, 0, 1, 0, 0, 1, 0}, {1}}
		_, err := env.Step([]types.Action{action})
		assert.ErrorIs(t, err, types.ErrActionShape)
	})

	t.Run("short vector", func(t *testing.T) {
		_, err := env.Step([]types.Action{types.FlatAction(0, 0, 0, 1, 0, 0, 1)})
		var shapeErr *types.ActionShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, 8, shapeErr.Expected)
		assert.Equal(t, 7, shapeErr.Got)
		assert.Equal(t, "agent 0", shapeErr.Agent)
	})
}

func TestTupleConsumption(t *testing.T) {
	w := newTestWorld(1, 3, false)
	env := newTestEnv(t, w, &testScenario{}, Config{})
	require.IsType(t, &types.Tuple{}, env.ActionSpace()[0])

	_, err := env.Step([]types.Action{{{0.5, 0}, {0, 0, 1}}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 0}, w.Agents()[0].Action.U)
	assert.Equal(t, []float64{0, 0, 1}, w.Agents()[0].Action.C)

	_, err = env.Step([]types.Action{{{0.5, 0}}})
	assert.ErrorIs(t, err, types.ErrActionShape)

	_, err = env.Step([]types.Action{{{0.5, 0}, {0, 0, 1}, {1}}})
	assert.ErrorIs(t, err, types.ErrActionShape)
}

func TestDiscreteInput(t *testing.T) {
	cfg := Config{DiscreteActionSpace: true, DiscreteActionInput: true}

	t.Run("literal index", func(t *testing.T) {
		w := newTestWorld(1, 0, true)
		env := newTestEnv(t, w, &testScenario{}, cfg)
		assert.Equal(t, &types.Discrete{N: 16}, env.ActionSpace()[0])

		_, err := env.Step([]types.Action{types.FlatAction(2)})
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 0}, w.Agents()[0].Action.U)
	})

	t.Run("one hot", func(t *testing.T) {
		w := newTestWorld(1, 0, true)
		env := newTestEnv(t, w, &testScenario{}, cfg)

		vec := make([]float64, 16)
		vec[13] = 1
		_, err := env.Step([]types.Action{types.FlatAction(vec...)})
		require.NoError(t, err)
		assert.Equal(t, []float64{-2.5, -2.5}, w.Agents()[0].Action.U)
	})

	t.Run("invalid index", func(t *testing.T) {
		w := newTestWorld(1, 0, true)
		env := newTestEnv(t, w, &testScenario{}, cfg)

		_, err := env.Step([]types.Action{types.FlatAction(16)})
		assert.ErrorIs(t, err, types.ErrActionShape)
		_, err = env.Step([]types.Action{types.FlatAction(1.5)})
		assert.ErrorIs(t, err, types.ErrActionShape)
	})

	t.Run("communication index", func(t *testing.T) {
		w := newTestWorld(1, 4, false)
		env := newTestEnv(t, w, &testScenario{}, cfg)

		vec := append(make([]float64, 16), 0, 0, 0, 1)
		vec[0] = 1
		_, err := env.Step([]types.Action{types.FlatAction(vec...)})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 5}, w.Agents()[0].Action.U)
		assert.Equal(t, []float64{0, 0, 0, 1}, w.Agents()[0].Action.C)
	})
}

func TestDirectionTable(t *testing.T) {
	assert.Equal(t, [2]float64{0, 1.0}, directionTable[0])
	assert.Equal(t, [2]float64{-1.0, 1.0}, directionTable[7])
	assert.Equal(t, [2]float64{0, 0.5}, directionTable[8])
	assert.Equal(t, [2]float64{-0.5, 0.5}, directionTable[15])
}
