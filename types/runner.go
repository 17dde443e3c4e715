package types

import (
	"context"
	"errors"
	"fmt"
)

// ErrPolicyStopped is reported when the policy does not produce an action
var ErrPolicyStopped = errors.New("policy returned no action")

type RunnerConfig struct {
	Episodes int
	// Maximum number of steps per episode
	Horizon     int
	Policy      Policy
	Environment Environment
}

// Runner drives the policy against the environment.
// It owns the episode step counter and decides episode boundaries.
type Runner struct {
	config *RunnerConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Runner
func NewRunner(config *RunnerConfig) *Runner {
	return &Runner{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the configured number of episodes, stops at the first failing episode
func (r *Runner) Run() error {
	for i := 0; i < r.config.Episodes; i++ {
		eCtx := NewEpisodeContext(context.Background(), 0, i, 0, 0)
		r.RunEpisode(eCtx)
		eCtx.Cancel()
		r.traces = append(r.traces, eCtx.Trace)
		if eCtx.Err != nil {
			return fmt.Errorf("episode %d: %w", i, eCtx.Err)
		}
	}
	return nil
}

// Traces collected by Run
func (r *Runner) Traces() []*Trace {
	return r.traces
}

// RunEpisode runs a single episode and stores the outcome in the episode context.
// The context is only checked between ticks.
func (r *Runner) RunEpisode(eCtx *EpisodeContext) {
	trace := eCtx.Trace
	obs, err := r.environment.Reset()
	if err != nil {
		eCtx.SetError(fmt.Errorf("reset: %w", err))
		return
	}
	spaces := r.environment.ActionSpace()

	episodeStep := 0
	for episodeStep < r.config.Horizon {
		select {
		case <-eCtx.Context.Done():
			eCtx.Timesteps = episodeStep
			return
		default:
		}

		actions, ok := r.policy.NextActions(episodeStep, obs, spaces)
		if !ok {
			eCtx.SetError(ErrPolicyStopped)
			break
		}
		transition, err := r.environment.Step(actions)
		if err != nil {
			eCtx.SetError(fmt.Errorf("step %d: %w", episodeStep, err))
			break
		}
		r.policy.Update(episodeStep, obs, actions, transition)
		trace.Append(episodeStep, obs, actions, transition)
		obs = transition.Observations
		episodeStep++

		if transition.Done() {
			eCtx.Terminal = true
			break
		}
	}
	eCtx.Timesteps = episodeStep
	if eCtx.Err == nil && !eCtx.Terminal {
		eCtx.HorizonEnd = true
	}

	if h, ok := r.environment.(RewardHistoryProvider); ok {
		trace.Breakdowns = h.RewardHistory()
	}
	r.policy.UpdateIteration(eCtx.Episode, trace)
}
