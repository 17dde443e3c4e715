package multiagent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/world"
)

// testScenario places agent i at (2i, 0) and rewards agents with their x position
type testScenario struct {
	resetErr error
}

var _ types.Scenario = &testScenario{}

func (s *testScenario) ResetWorld(w types.World) (types.EpisodeArtifacts, error) {
	if s.resetErr != nil {
		return types.EpisodeArtifacts{}, s.resetErr
	}
	for i, a := range w.Agents() {
		a.State.PPos = []float64{2 * float64(i), 0}
		a.State.PVel = []float64{0, 0}
	}
	return types.EpisodeArtifacts{
		Goal:       []float64{2, 2},
		GoalRadius: 0.5,
		Aggregate: func(w types.World) []float64 {
			return []float64{float64(len(w.Agents())), 0}
		},
	}, nil
}

func (s *testScenario) Reward(a *types.Agent, _ types.World) (float64, []float64) {
	return a.State.PPos[0], []float64{a.State.PPos[0], 0.125}
}

func (s *testScenario) Observation(a *types.Agent, _ types.World) types.Observation {
	obs := append(types.Observation{}, a.State.PVel...)
	return append(obs, a.State.PPos...)
}

// doneScenario terminates on the first step and reports info
type doneScenario struct {
	testScenario
}

func (s *doneScenario) Done(a *types.Agent, _ types.World) (bool, types.Info) {
	return true, types.Info{"b": 2, "agent": a.Name}
}

func (s *doneScenario) Info(_ *types.Agent, _ types.World) types.Info {
	return types.Info{"a": 1, "b": 1}
}

func newTestWorld(n, dimC int, silent bool) *world.World {
	w := world.New(2, dimC)
	for i := 0; i < n; i++ {
		a := types.NewAgent(fmt.Sprintf("agent %d", i))
		a.Silent = silent
		w.AddAgent(a)
	}
	return w
}

func newTestEnv(t *testing.T, w *world.World, scenario types.Scenario, config Config) *Environment {
	env, err := NewEnvironment(w, scenario, config)
	require.NoError(t, err)
	_, err = env.Reset()
	require.NoError(t, err)
	return env
}

func noops(n int) []types.Action {
	actions := make([]types.Action, n)
	for i := range actions {
		actions[i] = types.FlatAction(1, 0, 0, 0, 0)
	}
	return actions
}

func TestResetThenNoopStep(t *testing.T) {
	w := newTestWorld(3, 0, true)
	env, err := NewEnvironment(w, &testScenario{}, DefaultConfig())
	require.NoError(t, err)

	obs, err := env.Reset()
	require.NoError(t, err)
	require.Len(t, obs, 3)
	for i, o := range obs {
		assert.Equal(t, types.Observation{0, 0, 2 * float64(i), 0}, o)
	}

	transition, err := env.Step(noops(3))
	require.NoError(t, err)
	assert.Equal(t, obs, transition.Observations)
	assert.Equal(t, []bool{false, false, false}, transition.Dones)
	assert.Equal(t, []float64{0, 2, 4}, transition.Rewards)
	require.Len(t, transition.Infos, 3)
	for _, info := range transition.Infos {
		assert.Empty(t, info)
	}
}

func TestSharedReward(t *testing.T) {
	w := newTestWorld(3, 0, true)
	w.SharedReward = true
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())
	assert.True(t, env.SharedReward())

	transition, err := env.Step(noops(3))
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 6, 6}, transition.Rewards)
}

func TestEpisodeCounter(t *testing.T) {
	w := newTestWorld(2, 0, true)
	env, err := NewEnvironment(w, &testScenario{}, DefaultConfig())
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := env.Reset()
		require.NoError(t, err)
		assert.Equal(t, i, w.NumEpisodes())
	}
}

func TestResetErrorIsReturnedUnchanged(t *testing.T) {
	boom := errors.New("boom")
	w := newTestWorld(2, 0, true)
	env, err := NewEnvironment(w, &testScenario{resetErr: boom}, DefaultConfig())
	require.NoError(t, err)

	_, err = env.Reset()
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, w.NumEpisodes())
}

func TestInfoMerge(t *testing.T) {
	w := newTestWorld(2, 0, true)
	env := newTestEnv(t, w, &doneScenario{}, DefaultConfig())

	transition, err := env.Step(noops(2))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, transition.Dones)
	assert.True(t, transition.Done())
	assert.Equal(t, types.Info{"a": 1, "b": 2, "agent": "agent 1"}, transition.Infos[1])
}

func TestJointActionLength(t *testing.T) {
	w := newTestWorld(3, 0, true)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	_, err := env.Step(noops(2))
	var shapeErr *types.ActionShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 3, shapeErr.Expected)
	assert.Equal(t, 2, shapeErr.Got)
}

func TestShapeErrorAppliesNothing(t *testing.T) {
	w := newTestWorld(2, 0, true)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	actions := []types.Action{
		types.FlatAction(0, 1, 0, 0, 0),
		types.FlatAction(0, 1, 0),
	}
	_, err := env.Step(actions)
	require.ErrorIs(t, err, types.ErrActionShape)
	assert.Equal(t, []float64{0, 0}, w.Agents()[0].Action.U)
	assert.Equal(t, []float64{0, 0}, w.Agents()[0].State.PPos)
}

func TestAgentCountChange(t *testing.T) {
	w := newTestWorld(2, 0, true)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	w.AddAgent(types.NewAgent("late"))
	_, err := env.Step(noops(2))
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestRewardHistory(t *testing.T) {
	w := newTestWorld(2, 0, true)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	for i := 0; i < 3; i++ {
		_, err := env.Step(noops(2))
		require.NoError(t, err)
	}
	history := env.RewardHistory()
	require.Len(t, history, 2)
	require.Len(t, history[1], 3)
	// half to even
	assert.Equal(t, []float64{2, 0.12}, history[1][0])

	history[1][0][0] = 100
	assert.Equal(t, 2.0, env.RewardHistory()[1][0][0])

	_, err := env.Reset()
	require.NoError(t, err)
	assert.Empty(t, env.RewardHistory()[0])
}

func TestSpaces(t *testing.T) {
	w := newTestWorld(2, 3, false)
	env := newTestEnv(t, w, &testScenario{}, DefaultConfig())

	require.Len(t, env.ActionSpace(), 2)
	assert.Equal(t, "MultiDiscrete([0,4], [0,2])", env.ActionSpace()[0].String())
	require.Len(t, env.ObservationSpace(), 2)
	assert.Equal(t, 4, env.ObservationSpace()[0].Size())
	assert.Equal(t, 2, env.N())
	assert.Equal(t, []float64{2, 2}, env.Artifacts().Goal)
}
