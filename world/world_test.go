package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/marl-env/types"
)

func twoAgentWorld() (*World, *types.Agent, *types.Agent) {
	w := New(2, 3)
	a := types.NewAgent("agent 0")
	b := types.NewAgent("agent 1")
	w.AddAgent(a)
	w.AddAgent(b)
	a.State.PPos = []float64{-1, 0}
	b.State.PPos = []float64{1, 0}
	return w, a, b
}

func TestStepWithoutForceKeepsPositions(t *testing.T) {
	w, a, b := twoAgentWorld()
	w.Step()
	assert.InDeltaSlice(t, []float64{-1, 0}, a.State.PPos, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, b.State.PPos, 1e-12)
}

func TestStepIntegratesActionForce(t *testing.T) {
	w, a, _ := twoAgentWorld()
	a.Action.U = []float64{1, 0}
	w.Step()

	// v = 0*(1-damping) + u/m*dt, p += v*dt
	assert.InDelta(t, 0.1, a.State.PVel[0], 1e-9)
	assert.InDelta(t, -1+0.01, a.State.PPos[0], 1e-9)

	// the force is applied again until the action is replaced
	w.Step()
	assert.InDelta(t, 0.1*0.75+0.1, a.State.PVel[0], 1e-9)

	a.Action.U = []float64{0, 0}
	w.Step()
	assert.InDelta(t, (0.1*0.75+0.1)*0.75, a.State.PVel[0], 1e-9)
}

func TestMaxSpeed(t *testing.T) {
	w, a, _ := twoAgentWorld()
	a.MaxSpeed = 0.05
	a.Action.U = []float64{10, 0}
	w.Step()
	assert.InDelta(t, 0.05, a.State.PVel[0], 1e-9)
}

func TestOverlappingEntitiesRepel(t *testing.T) {
	w, a, b := twoAgentWorld()
	a.State.PPos = []float64{-0.01, 0}
	b.State.PPos = []float64{0.01, 0}
	w.Step()
	assert.Less(t, a.State.PPos[0], -0.01)
	assert.Greater(t, b.State.PPos[0], 0.01)
}

func TestLandmarksDoNotMove(t *testing.T) {
	w, a, _ := twoAgentWorld()
	l := &types.Entity{Name: "landmark 0", Size: 0.2, Collide: true}
	w.AddLandmark(l)
	l.State.PPos = []float64{-1.05, 0}
	a.State.PPos = []float64{-1, 0}
	w.Step()
	assert.Equal(t, []float64{-1.05, 0}, l.State.PPos)
	assert.Greater(t, a.State.PPos[0], -1.0)
	assert.Len(t, w.Entities(), 3)
}

func TestCommunicationState(t *testing.T) {
	w, a, b := twoAgentWorld()
	b.Silent = true
	a.Action.C = []float64{0, 1, 0}
	b.Action.C = []float64{1, 0, 0}
	w.Step()
	assert.Equal(t, []float64{0, 1, 0}, a.C)
	assert.Equal(t, []float64{0, 0, 0}, b.C)
}

func TestScriptedAgents(t *testing.T) {
	w, a, b := twoAgentWorld()
	b.Script = func(agent *types.Agent, _ types.World) types.AgentAction {
		return types.AgentAction{U: []float64{0, 1}, C: make([]float64, 3)}
	}
	require.Len(t, w.PolicyAgents(), 1)
	assert.Same(t, a, w.PolicyAgents()[0])
	assert.Len(t, w.ScriptedAgents(), 1)

	w.Step()
	assert.Greater(t, b.State.PPos[1], 0.0)
}

func TestEpisodes(t *testing.T) {
	w := New(2, 0)
	assert.Equal(t, 0, w.NumEpisodes())
	w.IncrementEpisodes()
	w.IncrementEpisodes()
	assert.Equal(t, 2, w.NumEpisodes())
}
