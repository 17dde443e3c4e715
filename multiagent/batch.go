package multiagent

import (
	"fmt"

	"github.com/zeu5/marl-env/types"
)

// BatchEnvironment composes independent environments into one environment.
// Sub-environment i owns the joint agent indices [offset_i, offset_i + n_i).
// Sub-environments are stepped sequentially and never interact.
type BatchEnvironment struct {
	envs []types.Environment
}

var _ types.Environment = &BatchEnvironment{}
var _ types.RewardHistoryProvider = &BatchEnvironment{}

// validator is implemented by environments that can check a joint action without stepping
type validator interface {
	validate([]types.Action) error
}

// NewBatchEnvironment creates a batch of at least one environment.
// An environment, or the world of an environment, can appear only once.
func NewBatchEnvironment(envs ...types.Environment) (*BatchEnvironment, error) {
	if len(envs) == 0 {
		return nil, types.NewConfigurationError("", "batch environment needs at least one environment")
	}
	for i, env := range envs {
		for j := 0; j < i; j++ {
			if sameEnvironment(envs[j], env) {
				return nil, types.NewConfigurationError("", "environments %d and %d share the same world", j, i)
			}
		}
	}
	return &BatchEnvironment{envs: envs}, nil
}

// sameEnvironment compares by identity, environments over one world are the same
func sameEnvironment(a, b types.Environment) bool {
	ea, okA := a.(*Environment)
	eb, okB := b.(*Environment)
	if okA && okB {
		return ea == eb || ea.world == eb.world
	}
	return a == b
}

// Environments of the batch in order
func (b *BatchEnvironment) Environments() []types.Environment {
	return b.envs
}

// N is the sum of the agent counts of the sub-environments
func (b *BatchEnvironment) N() int {
	n := 0
	for _, env := range b.envs {
		n += env.N()
	}
	return n
}

func (b *BatchEnvironment) ActionSpace() []types.Space {
	spaces := make([]types.Space, 0, b.N())
	for _, env := range b.envs {
		spaces = append(spaces, env.ActionSpace()...)
	}
	return spaces
}

func (b *BatchEnvironment) ObservationSpace() []types.Space {
	spaces := make([]types.Space, 0, b.N())
	for _, env := range b.envs {
		spaces = append(spaces, env.ObservationSpace()...)
	}
	return spaces
}

// Step slices the joint action per sub-environment and concatenates the results.
// Every slice is validated before any sub-environment is stepped.
func (b *BatchEnvironment) Step(actions []types.Action) (*types.Transition, error) {
	if err := b.validate(actions); err != nil {
		return nil, err
	}

	out := types.NewTransition(len(actions))
	offset := 0
	for i, env := range b.envs {
		transition, err := env.Step(actions[offset : offset+env.N()])
		if err != nil {
			return nil, fmt.Errorf("environment %d: %w", i, err)
		}
		offset += env.N()
		out.Append(transition)
	}
	return out, nil
}

func (b *BatchEnvironment) validate(actions []types.Action) error {
	n := b.N()
	if len(actions) != n {
		return types.NewActionShapeError("*", n, len(actions), "joint batch action length")
	}
	offset := 0
	for i, env := range b.envs {
		if v, ok := env.(validator); ok {
			if err := v.validate(actions[offset : offset+env.N()]); err != nil {
				return fmt.Errorf("environment %d: %w", i, err)
			}
		}
		offset += env.N()
	}
	return nil
}

// Reset every sub-environment and concatenate the observations
func (b *BatchEnvironment) Reset() ([]types.Observation, error) {
	obs := make([]types.Observation, 0, b.N())
	for i, env := range b.envs {
		o, err := env.Reset()
		if err != nil {
			return nil, fmt.Errorf("environment %d: %w", i, err)
		}
		obs = append(obs, o...)
	}
	return obs, nil
}

// RewardHistory concatenates the histories of the sub-environments that keep one.
// Agents of other sub-environments get an empty history.
func (b *BatchEnvironment) RewardHistory() [][][]float64 {
	out := make([][][]float64, 0, b.N())
	for _, env := range b.envs {
		if h, ok := env.(types.RewardHistoryProvider); ok {
			out = append(out, h.RewardHistory()...)
			continue
		}
		out = append(out, make([][][]float64, env.N())...)
	}
	return out
}
