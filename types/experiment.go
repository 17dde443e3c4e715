package types

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zeu5/marl-env/util"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Episodes   int
	Horizon    int
	Analyzers  []Analyzer
	Timeout    time.Duration
	Context    context.Context

	// thresholds to abort the experiment
	ConsecutiveTimeoutsAbort int
	ConsecutiveErrorsAbort   int

	// record flags
	RecordTraces bool
	RecordTimes  bool
	RecordPath   string

	//misc
	LongestExpNameLen int
}

// Experiment couples a policy with an environment
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, episode int, trace *Trace) {
	tracesFile := path.Join(rConfig.RecordPath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(trace)
	if err != nil {
		log.Printf("experiment %s: failed to encode trace of episode %d: %s", e.Name, episode, err)
		return
	}
	if err := util.AppendToFile(tracesFile, string(bs)); err != nil {
		log.Printf("experiment %s: failed to record trace of episode %d: %s", e.Name, episode, err)
	}
}

// Run the experiment for the specified number of episodes and feed every trace to the analyzers
func (e *Experiment) Run(rConfig *experimentRunConfig) {
	select {
	case <-rConfig.Context.Done():
		return
	default:
	}

	totalTimeout := 0   // episodes ended with a timeout
	totalWithError := 0 // episodes ended with an error
	consecutiveTimeouts := 0
	consecutiveErrors := 0
	totalTerminal := 0 // episodes ended with an agent done
	totalHorizon := 0  // episodes ended with the horizon reached
	episodeTimes := make([]time.Duration, 0)

	runner := NewRunner(&RunnerConfig{
		Episodes:    rConfig.Episodes,
		Horizon:     rConfig.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	executedTimesteps := 0
	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	NamePadding := rConfig.LongestExpNameLen

	for episode := 0; episode < rConfig.Episodes; episode++ {
		select {
		case <-rConfig.Context.Done():
			return
		default:
		}

		eCtx := NewEpisodeContext(rConfig.Context, rConfig.CurrentRun, episode, executedTimesteps, rConfig.Timeout)
		e.runEpisode(eCtx, runner)
		episodeTimes = append(episodeTimes, eCtx.RunDuration)
		executedTimesteps += eCtx.Timesteps

		if eCtx.TimedOut {
			totalTimeout += 1
			consecutiveTimeouts += 1
		} else {
			consecutiveTimeouts = 0
		}

		if eCtx.Err != nil {
			totalWithError += 1
			consecutiveErrors += 1
			log.Printf("experiment %s: episode %d: %s", e.Name, episode, eCtx.Err)
		} else {
			consecutiveErrors = 0
		}

		if eCtx.Valid() {
			if eCtx.Terminal {
				totalTerminal += 1
			} else if eCtx.HorizonEnd {
				totalHorizon += 1
			}
		}

		if rConfig.RecordTraces {
			e.recordTrace(rConfig, episode, eCtx.Trace)
		}

		// analyze the trace, even if the episode timed out or ended with an error
		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, episode, eCtx.StartTimestep, e.Name, eCtx.Trace)
		}

		if len(episodeTimes) == 10 {
			if rConfig.RecordTimes {
				e.printEpTimesMs(episodeTimes, rConfig.RecordPath)
			}
			episodeTimes = make([]time.Duration, 0)
		}

		if consecutiveTimeouts >= rConfig.ConsecutiveTimeoutsAbort {
			fmt.Printf("\n Aborting experiment %s : %d consecutive timeouts\n", e.Name, consecutiveTimeouts)
			break
		}
		if consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			fmt.Printf("\n Aborting experiment %s : %d consecutive errors\n", e.Name, consecutiveErrors)
			break
		}

		// terminal execution display
		fmt.Printf("\rExp:%*s, TSteps:%d || Eps:%*d/%d, TOut:%*d, Err:%*d || Done:%*d, Horizon:%*d",
			NamePadding, e.Name, executedTimesteps,
			EPPadding, episode+1, rConfig.Episodes, EPPadding, totalTimeout, EPPadding, totalWithError,
			EPPadding, totalTerminal, EPPadding, totalHorizon)
	}
	fmt.Println("")
}

// runEpisode runs the episode in a separate goroutine and enforces the timeout.
// On timeout the episode is cancelled and awaited, so two episodes never step the
// environment at the same time.
func (e *Experiment) runEpisode(eCtx *EpisodeContext, runner *Runner) {
	defer eCtx.Cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				eCtx.SetError(fmt.Errorf("%v", r))
			}
		}()
		start := time.Now()
		runner.RunEpisode(eCtx)
		eCtx.RunDuration = time.Since(start)
	}()

	select {
	case <-eCtx.Context.Done():
		deadline, ok := eCtx.Context.Deadline()
		if ok && time.Now().After(deadline) {
			eCtx.SetTimedOut()
		}
		<-done
	case <-done:
	}
}

func (e *Experiment) printEpTimesMs(epTimes []time.Duration, basePath string) {
	tMilliseconds := ""
	for _, tm := range epTimes {
		tMilliseconds = fmt.Sprintf("%s%7d, ", tMilliseconds, tm.Milliseconds())
	}
	filePath := path.Join(basePath, "epTimes", e.Name+"_ms.txt")
	util.AppendToFile(filePath, tMilliseconds)
}

// Reset the policy between runs
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, episode, start timestep, experiment, trace
	Analyze(int, int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(_ int, _ []string, _ []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int // number of runs
	Episodes int // number of episodes
	Horizon  int // maximum number of steps per episode

	RecordPath string        // path to store the results
	Timeout    time.Duration // timeout for each episode

	// thresholds to abort the experiment
	ConsecutiveTimeoutsAbort int
	ConsecutiveErrorsAbort   int

	// record flags
	RecordTraces bool
	RecordTimes  bool
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	ID          string
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance and the folders to record results
func NewComparison(config *ComparisonConfig) *Comparison {
	foldersToCreate := []string{""}
	if config.RecordTraces {
		foldersToCreate = append(foldersToCreate, "traces")
	}
	if config.RecordTimes {
		foldersToCreate = append(foldersToCreate, "epTimes")
	}
	for _, s := range foldersToCreate {
		if err := util.EnsureDir(path.Join(config.RecordPath, s)); err != nil {
			panic(err)
		}
	}

	return &Comparison{
		ID:          uuid.New().String(),
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["id"] = c.ID
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["horizon"] = cfg.Horizon
	out["record_traces"] = cfg.RecordTraces
	out["record_times"] = cfg.RecordTimes
	if cfg.Timeout != 0 {
		out["timeout"] = cfg.Timeout.String()
	}

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) {
	if err := c.recordConfig(); err != nil {
		log.Printf("comparison %s: failed to record config: %s", c.ID, err)
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			e.Run(c.prepareRunConfig(ctx, run, longestNameLen))
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:               run,
		Episodes:                 c.cConfig.Episodes,
		Horizon:                  c.cConfig.Horizon,
		Analyzers:                make([]Analyzer, 0),
		RecordTraces:             c.cConfig.RecordTraces,
		RecordTimes:              c.cConfig.RecordTimes,
		RecordPath:               c.cConfig.RecordPath,
		Timeout:                  c.cConfig.Timeout,
		Context:                  ctx,
		ConsecutiveErrorsAbort:   c.cConfig.ConsecutiveErrorsAbort,
		ConsecutiveTimeoutsAbort: c.cConfig.ConsecutiveTimeoutsAbort,

		LongestExpNameLen: longestExpNameLen,
	}

	if rCfg.ConsecutiveErrorsAbort == 0 {
		rCfg.ConsecutiveErrorsAbort = 10
	}
	if rCfg.ConsecutiveTimeoutsAbort == 0 {
		rCfg.ConsecutiveTimeoutsAbort = 10
	}

	for _, a := range c.analyzers {
		rCfg.Analyzers = append(rCfg.Analyzers, a)
	}
	return rCfg
}
