// Package multiagent implements the environment layer between independent policy
// agents and a shared world: action space composition, action decoding, the per
// tick control loop, reward aggregation, episode lifecycle and batching.
package multiagent

import "github.com/zeu5/marl-env/types"

// Config recognized at construction
type Config struct {
	// If true the physical and communication spaces are discrete, otherwise boxes
	DiscreteActionSpace bool
	// If true the action is a category index instead of a one-hot vector
	DiscreteActionInput bool
	// If true a single viewer is shared by all agents
	SharedViewer bool
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	return Config{
		DiscreteActionSpace: true,
		DiscreteActionInput: false,
		SharedViewer:        true,
	}
}

// decodingMode selects the decoding branch, fixed at construction
type decodingMode struct {
	discreteActionSpace bool
	discreteActionInput bool
	// a continuous action vector is collapsed to one-hot before use
	forceDiscreteAction bool
}

func newDecodingMode(cfg Config, world types.World) decodingMode {
	mode := decodingMode{
		discreteActionSpace: cfg.DiscreteActionSpace,
		discreteActionInput: cfg.DiscreteActionInput,
	}
	if w, ok := world.(types.DiscreteActionWorld); ok {
		mode.forceDiscreteAction = w.DiscreteAction()
	}
	return mode
}

// sharedReward is true when the world declares a fully cooperative setting
func sharedReward(world types.World) bool {
	if w, ok := world.(types.CollaborativeWorld); ok {
		return w.Collaborative()
	}
	return false
}

func (m decodingMode) validate() error {
	if m.discreteActionInput && !m.discreteActionSpace {
		return types.NewConfigurationError("", "discrete action input requires a discrete action space")
	}
	return nil
}
