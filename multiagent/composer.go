package multiagent

import (
	"math"

	"github.com/zeu5/marl-env/types"
)

// number of preset movements in discrete input mode
const discreteInputMovements = 16

// composeActionSpace builds the action space of a policy agent.
// Physical sub-space exists iff the agent is movable, communication iff it is not silent.
func composeActionSpace(agent *types.Agent, dimP, dimC int, mode decodingMode) (types.Space, error) {
	subSpaces := make([]types.Space, 0, 2)

	if agent.Movable {
		var u types.Space
		switch {
		case mode.discreteActionSpace && !mode.discreteActionInput:
			u = &types.Discrete{N: 2*dimP + 1}
		case mode.discreteActionSpace && mode.discreteActionInput:
			if dimP < 2 {
				return nil, types.NewConfigurationError(agent.Name, "discrete action input needs at least 2 physical dimensions, world has %d", dimP)
			}
			u = &types.Discrete{N: discreteInputMovements}
		default:
			u = &types.Box{Low: -agent.URange, High: agent.URange, Shape: []int{dimP}}
		}
		subSpaces = append(subSpaces, u)
	}

	if !agent.Silent {
		var c types.Space
		if mode.discreteActionSpace {
			if dimC == 0 {
				return nil, types.NewConfigurationError(agent.Name, "agent is not silent but the world has no communication channels")
			}
			c = &types.Discrete{N: dimC}
		} else {
			c = &types.Box{Low: 0.0, High: 1.0, Shape: []int{dimC}}
		}
		subSpaces = append(subSpaces, c)
	}

	switch len(subSpaces) {
	case 0:
		return nil, types.NewConfigurationError(agent.Name, "policy agent is neither movable nor able to communicate")
	case 1:
		return subSpaces[0], nil
	}

	allDiscrete := true
	ranges := make([]types.DiscreteRange, len(subSpaces))
	for i, s := range subSpaces {
		d, ok := s.(*types.Discrete)
		if !ok {
			allDiscrete = false
			break
		}
		ranges[i] = types.DiscreteRange{Low: 0, High: d.N - 1}
	}
	if allDiscrete {
		return &types.MultiDiscrete{Ranges: ranges}, nil
	}
	return &types.Tuple{Spaces: subSpaces}, nil
}

// observationSpace is an unbounded box shaped like the observation
func observationSpace(obs types.Observation) types.Space {
	return &types.Box{Low: math.Inf(-1), High: math.Inf(1), Shape: []int{len(obs)}}
}
