// Package world is a particle world of point masses moving in a plane.
// Agents push themselves with their physical action, colliding entities repel each other
// through a soft contact force and agents broadcast their communication action.
package world

import (
	"math"

	"github.com/zeu5/marl-env/types"
	"gonum.org/v1/gonum/floats"
)

// World is the reference implementation of types.World
type World struct {
	agents    []*types.Agent
	Landmarks []*types.Entity

	dimP int
	dimC int

	// Simulation timestep
	Dt float64
	// Fraction of the velocity lost every tick
	Damping float64
	// Contact response parameters
	ContactForce  float64
	ContactMargin float64

	// When true all agents receive the group reward
	SharedReward bool
	// When true continuous actions are converted to one-hot vectors
	ForceDiscrete bool

	episodes int
}

var _ types.World = &World{}
var _ types.CollaborativeWorld = &World{}
var _ types.DiscreteActionWorld = &World{}

// New creates an empty world with physical dimension dimP and dimC communication channels
func New(dimP, dimC int) *World {
	return &World{
		agents:        make([]*types.Agent, 0),
		Landmarks:     make([]*types.Entity, 0),
		dimP:          dimP,
		dimC:          dimC,
		Dt:            0.1,
		Damping:       0.25,
		ContactForce:  1e2,
		ContactMargin: 1e-3,
	}
}

// AddAgent adds the agent and sizes its state to the world dimensions
func (w *World) AddAgent(agent *types.Agent) {
	agent.State.PPos = make([]float64, w.dimP)
	agent.State.PVel = make([]float64, w.dimP)
	agent.C = make([]float64, w.dimC)
	agent.Action.U = make([]float64, w.dimP)
	agent.Action.C = make([]float64, w.dimC)
	w.agents = append(w.agents, agent)
}

// AddLandmark adds a static entity
func (w *World) AddLandmark(entity *types.Entity) {
	entity.State.PPos = make([]float64, w.dimP)
	entity.State.PVel = make([]float64, w.dimP)
	w.Landmarks = append(w.Landmarks, entity)
}

func (w *World) Entities() []*types.Entity {
	out := make([]*types.Entity, 0, len(w.agents)+len(w.Landmarks))
	for _, a := range w.agents {
		out = append(out, &a.Entity)
	}
	return append(out, w.Landmarks...)
}

func (w *World) Agents() []*types.Agent {
	return w.agents
}

func (w *World) PolicyAgents() []*types.Agent {
	out := make([]*types.Agent, 0, len(w.agents))
	for _, a := range w.agents {
		if a.IsPolicyAgent() {
			out = append(out, a)
		}
	}
	return out
}

// ScriptedAgents are the agents that compute their own action
func (w *World) ScriptedAgents() []*types.Agent {
	out := make([]*types.Agent, 0)
	for _, a := range w.agents {
		if !a.IsPolicyAgent() {
			out = append(out, a)
		}
	}
	return out
}

func (w *World) DimP() int {
	return w.dimP
}

func (w *World) DimC() int {
	return w.dimC
}

func (w *World) Collaborative() bool {
	return w.SharedReward
}

func (w *World) DiscreteAction() bool {
	return w.ForceDiscrete
}

func (w *World) NumEpisodes() int {
	return w.episodes
}

func (w *World) IncrementEpisodes() {
	w.episodes += 1
}

// Step advances the world by one tick
func (w *World) Step() {
	for _, a := range w.ScriptedAgents() {
		a.Action = a.Script(a, w)
	}

	entities := w.Entities()
	forces := make([][]float64, len(entities))
	w.applyActionForce(forces)
	w.applyEnvironmentForce(entities, forces)
	w.integrate(entities, forces)

	for _, a := range w.agents {
		w.updateAgentState(a)
	}
}

// the physical action of movable agents is a force, agents come first in the entity order.
// Actions are kept between ticks, the environment writes a new one before every tick.
func (w *World) applyActionForce(forces [][]float64) {
	for i, a := range w.agents {
		if a.Movable && len(a.Action.U) == w.dimP {
			forces[i] = append([]float64{}, a.Action.U...)
		}
	}
}

func (w *World) applyEnvironmentForce(entities []*types.Entity, forces [][]float64) {
	for i, a := range entities {
		for j := i + 1; j < len(entities); j++ {
			b := entities[j]
			fa, fb := w.collisionForce(a, b)
			if fa != nil {
				forces[i] = addForce(forces[i], fa)
			}
			if fb != nil {
				forces[j] = addForce(forces[j], fb)
			}
		}
	}
}

func addForce(force, add []float64) []float64 {
	if force == nil {
		return append([]float64{}, add...)
	}
	floats.Add(force, add)
	return force
}

// collisionForce is the soft contact force between two entities, nil when there is no contact
func (w *World) collisionForce(a, b *types.Entity) ([]float64, []float64) {
	if !a.Collide || !b.Collide || a == b {
		return nil, nil
	}
	delta := make([]float64, w.dimP)
	floats.SubTo(delta, a.State.PPos, b.State.PPos)
	dist := floats.Norm(delta, 2)
	if dist == 0 {
		return nil, nil
	}
	minDist := a.Size + b.Size
	k := w.ContactMargin
	penetration := logAddExp(0, -(dist-minDist)/k) * k
	floats.Scale(w.ContactForce*penetration/dist, delta)

	var fa, fb []float64
	if a.Movable {
		fa = append([]float64{}, delta...)
	}
	if b.Movable {
		fb = make([]float64, w.dimP)
		floats.ScaleTo(fb, -1, delta)
	}
	return fa, fb
}

func (w *World) integrate(entities []*types.Entity, forces [][]float64) {
	for i, e := range entities {
		if !e.Movable {
			continue
		}
		floats.Scale(1-w.Damping, e.State.PVel)
		if forces[i] != nil {
			floats.AddScaled(e.State.PVel, w.Dt/e.GetMass(), forces[i])
		}
		if e.MaxSpeed > 0 {
			speed := floats.Norm(e.State.PVel, 2)
			if speed > e.MaxSpeed {
				floats.Scale(e.MaxSpeed/speed, e.State.PVel)
			}
		}
		floats.AddScaled(e.State.PPos, w.Dt, e.State.PVel)
	}
}

func (w *World) updateAgentState(a *types.Agent) {
	if a.Silent || len(a.Action.C) != w.dimC {
		a.C = make([]float64, w.dimC)
		return
	}
	a.C = append([]float64{}, a.Action.C...)
}

// logAddExp computes log(exp(x) + exp(y)) without overflow
func logAddExp(x, y float64) float64 {
	if x < y {
		x, y = y, x
	}
	return x + math.Log1p(math.Exp(y-x))
}
