// Package recorder persists per episode summaries of experiment runs
package recorder

import (
	"context"
	"log"
	"time"

	"github.com/zeu5/marl-env/types"
)

// EpisodeSummary is the outcome of a single episode
type EpisodeSummary struct {
	ComparisonID string    `json:"comparison_id,omitempty"`
	Experiment   string    `json:"experiment"`
	Run          int       `json:"run"`
	Episode      int       `json:"episode"`
	Steps        int       `json:"steps"`
	Rewards      []float64 `json:"rewards"`
	Terminal     bool      `json:"terminal"`
	Timestamp    time.Time `json:"timestamp"`
	// agent, step, breakdown
	Breakdowns [][][]float64 `json:"breakdowns,omitempty"`
}

// NewEpisodeSummary summarizes the trace of an episode
func NewEpisodeSummary(experiment string, run, episode int, trace *types.Trace) *EpisodeSummary {
	rewards := trace.TotalRewards()
	if rewards == nil {
		rewards = make([]float64, 0)
	}
	return &EpisodeSummary{
		Experiment: experiment,
		Run:        run,
		Episode:    episode,
		Steps:      trace.Len(),
		Rewards:    rewards,
		Terminal:   trace.Terminal(),
		Timestamp:  time.Now(),
		Breakdowns: trace.Breakdowns,
	}
}

// Recorder stores episode summaries
type Recorder interface {
	Record(context.Context, *EpisodeSummary) error
	Close() error
}

// Analyzer records every analyzed episode, recording errors are logged and ignored.
// The dataset is the number of recorded episodes.
type Analyzer struct {
	ctx          context.Context
	recorder     Recorder
	comparisonID string
	recorded     int
}

var _ types.Analyzer = &Analyzer{}

func NewAnalyzer(ctx context.Context, comparisonID string, recorder Recorder) *Analyzer {
	return &Analyzer{
		ctx:          ctx,
		recorder:     recorder,
		comparisonID: comparisonID,
	}
}

func (a *Analyzer) Analyze(run, episode, _ int, name string, trace *types.Trace) {
	summary := NewEpisodeSummary(name, run, episode, trace)
	summary.ComparisonID = a.comparisonID
	if err := a.recorder.Record(a.ctx, summary); err != nil {
		log.Printf("failed to record episode %d of %s: %s", episode, name, err)
		return
	}
	a.recorded += 1
}

func (a *Analyzer) DataSet() types.DataSet {
	return a.recorded
}

func (a *Analyzer) Reset() {
	a.recorded = 0
}
