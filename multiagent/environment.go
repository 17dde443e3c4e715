package multiagent

import (
	"math"

	"github.com/zeu5/marl-env/types"
)

// Environment for all policy agents of a world.
// The agent population is fixed for the lifetime of the environment and a single
// goroutine is expected to step it.
type Environment struct {
	world    types.World
	scenario types.Scenario
	config   Config
	decoder  *decoder

	agents       []*types.Agent
	n            int
	sharedReward bool

	actionSpace      []types.Space
	observationSpace []types.Space

	// reward breakdowns per agent for the current episode
	rewardHistory [][][]float64
	artifacts     types.EpisodeArtifacts
}

var _ types.Environment = &Environment{}
var _ types.RewardHistoryProvider = &Environment{}

// NewEnvironment composes the action and observation spaces of every policy agent
func NewEnvironment(world types.World, scenario types.Scenario, config Config) (*Environment, error) {
	mode := newDecodingMode(config, world)
	if err := mode.validate(); err != nil {
		return nil, err
	}

	agents := world.PolicyAgents()
	e := &Environment{
		world:    world,
		scenario: scenario,
		config:   config,
		decoder: &decoder{
			mode: mode,
			dimP: world.DimP(),
			dimC: world.DimC(),
		},
		agents:           agents,
		n:                len(agents),
		sharedReward:     sharedReward(world),
		actionSpace:      make([]types.Space, 0, len(agents)),
		observationSpace: make([]types.Space, 0, len(agents)),
		rewardHistory:    make([][][]float64, len(agents)),
	}

	for _, agent := range agents {
		space, err := composeActionSpace(agent, world.DimP(), world.DimC(), mode)
		if err != nil {
			return nil, err
		}
		e.actionSpace = append(e.actionSpace, space)
		e.observationSpace = append(e.observationSpace, observationSpace(scenario.Observation(agent, world)))
		agent.Action.C = make([]float64, world.DimC())
	}
	return e, nil
}

func (e *Environment) N() int {
	return e.n
}

func (e *Environment) ActionSpace() []types.Space {
	return e.actionSpace
}

func (e *Environment) ObservationSpace() []types.Space {
	return e.observationSpace
}

// World stepped by the environment
func (e *Environment) World() types.World {
	return e.world
}

// Config the environment was created with
func (e *Environment) Config() Config {
	return e.config
}

// SharedReward is true when all agents receive the group reward
func (e *Environment) SharedReward() bool {
	return e.sharedReward
}

// Artifacts produced by the last reset
func (e *Environment) Artifacts() types.EpisodeArtifacts {
	return e.artifacts
}

// refreshAgents reloads the policy agents, the count must not change
func (e *Environment) refreshAgents() error {
	agents := e.world.PolicyAgents()
	if len(agents) != e.n {
		return types.NewConfigurationError("", "policy agent count changed from %d to %d", e.n, len(agents))
	}
	e.agents = agents
	return nil
}

// Step decodes and applies the action of every agent, advances the world by one
// tick and collects observations, rewards, dones and infos in agent order.
// Callback panics are not recovered.
func (e *Environment) Step(actions []types.Action) (*types.Transition, error) {
	commands, err := e.decodeAll(actions)
	if err != nil {
		return nil, err
	}
	for i, agent := range e.agents {
		commands[i].apply(agent)
	}

	e.world.Step()

	transition := types.NewTransition(e.n)
	rewards := make([]float64, 0, e.n)
	for i, agent := range e.agents {
		transition.Observations = append(transition.Observations, e.observation(agent))
		reward, breakdown := e.scenario.Reward(agent, e.world)
		rewards = append(rewards, reward)
		done, info := e.done(agent)
		transition.Dones = append(transition.Dones, done)
		transition.Infos = append(transition.Infos, info)

		e.rewardHistory[i] = append(e.rewardHistory[i], roundAll(breakdown, 2))
	}
	transition.Rewards, _ = aggregateRewards(rewards, e.sharedReward)
	return transition, nil
}

// decodeAll decodes the joint action without writing anything to the world
func (e *Environment) decodeAll(actions []types.Action) ([]Command, error) {
	if err := e.refreshAgents(); err != nil {
		return nil, err
	}
	if len(actions) != e.n {
		return nil, types.NewActionShapeError("*", e.n, len(actions), "joint action length")
	}
	commands := make([]Command, e.n)
	for i, agent := range e.agents {
		cmd, err := e.decoder.decode(actions[i], agent, e.actionSpace[i])
		if err != nil {
			return nil, err
		}
		commands[i] = cmd
	}
	return commands, nil
}

// validate checks the joint action, the world is left untouched
func (e *Environment) validate(actions []types.Action) error {
	_, err := e.decodeAll(actions)
	return err
}

// Reset re-initializes the world through the scenario and returns the first observations.
// Errors of the reset callback are returned unchanged.
func (e *Environment) Reset() ([]types.Observation, error) {
	artifacts, err := e.scenario.ResetWorld(e.world)
	if err != nil {
		return nil, err
	}
	e.artifacts = artifacts

	if err := e.refreshAgents(); err != nil {
		return nil, err
	}
	e.rewardHistory = make([][][]float64, e.n)

	obs := make([]types.Observation, 0, e.n)
	for _, agent := range e.agents {
		obs = append(obs, e.observation(agent))
	}
	e.world.IncrementEpisodes()
	return obs, nil
}

// RewardHistory returns a copy of the reward breakdowns of the current episode
func (e *Environment) RewardHistory() [][][]float64 {
	out := make([][][]float64, len(e.rewardHistory))
	for i, steps := range e.rewardHistory {
		out[i] = make([][]float64, len(steps))
		for j, b := range steps {
			out[i][j] = append([]float64{}, b...)
		}
	}
	return out
}

func (e *Environment) observation(agent *types.Agent) types.Observation {
	obs := e.scenario.Observation(agent, e.world)
	return append(types.Observation{}, obs...)
}

// done merges the info of the info callback with the info of the done callback
func (e *Environment) done(agent *types.Agent) (bool, types.Info) {
	info := types.Info{}
	if p, ok := e.scenario.(types.InfoProvider); ok {
		for k, v := range p.Info(agent, e.world) {
			info[k] = v
		}
	}
	p, ok := e.scenario.(types.DoneProvider)
	if !ok {
		return false, info
	}
	done, doneInfo := p.Done(agent, e.world)
	for k, v := range doneInfo {
		info[k] = v
	}
	return done, info
}

func roundAll(values []float64, decimals int) []float64 {
	pow := math.Pow(10, float64(decimals))
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.RoundToEven(v*pow) / pow
	}
	return out
}
