package types

import (
	"context"
	"time"
)

// EpisodeContext stores the info used and returned by an episode
type EpisodeContext struct {
	Context context.Context
	Cancel  context.CancelFunc // cancel function to stop the episode

	Run     int
	Episode int
	// Timesteps executed before the episode
	StartTimestep int

	Trace       *Trace
	Timesteps   int
	RunDuration time.Duration

	Err      error
	TimedOut bool
	// episode ended because an agent reported done before the horizon
	Terminal bool
	// episode ended because the horizon was reached
	HorizonEnd bool
}

// NewEpisodeContext creates the context of an episode. A zero timeout means no timeout.
func NewEpisodeContext(ctx context.Context, run, episode, startTimestep int, timeout time.Duration) *EpisodeContext {
	var eCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		eCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		eCtx, cancel = context.WithCancel(ctx)
	}
	return &EpisodeContext{
		Context:       eCtx,
		Cancel:        cancel,
		Run:           run,
		Episode:       episode,
		StartTimestep: startTimestep,
		Trace:         NewTrace(),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}

func (e *EpisodeContext) SetTimedOut() {
	e.TimedOut = true
}

// Valid episodes ended without an error or a timeout
func (e *EpisodeContext) Valid() bool {
	return e.Err == nil && !e.TimedOut
}
