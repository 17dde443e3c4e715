package benchmarks

import (
	"context"
	"log"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/marl-env/policies"
	"github.com/zeu5/marl-env/recorder"
	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/world"
)

type rolloutOptions struct {
	excel        bool
	redis        bool
	redisKey     string
	recordTraces bool
	recordTimes  bool
	heatmap      bool
}

// Rollout compares the non learning policies on the scenario
func Rollout(ctx context.Context, opts rolloutOptions) error {
	c := types.NewComparison(&types.ComparisonConfig{
		Runs:       runs,
		Episodes:   episodes,
		Horizon:    horizon,
		RecordPath: saveFile,
		Timeout:    timeout,
		// record flags
		RecordTraces: opts.recordTraces,
		RecordTimes:  opts.recordTimes,
	})
	c.AddAnalysis("Rewards", types.NewRewardAnalyzer(), types.RewardPlotComparator(saveFile))
	c.AddAnalysis("Lengths", types.NewEpisodeLengthAnalyzer(), types.EpisodeLengthPlotComparator(saveFile))
	if opts.heatmap {
		// observations of both scenarios start with velocity and position
		c.AddAnalysis("Positions", world.NewPositionHeatmapAnalyzer(2, 0.25, 4), world.HeatmapComparator(path.Join(saveFile, "heatmaps")))
	}

	if opts.excel {
		r, err := recorder.NewExcelRecorder(path.Join(saveFile, "rewards.xlsx"))
		if err != nil {
			return err
		}
		defer func() {
			if err := r.Close(); err != nil {
				log.Printf("failed to save workbook: %s", err)
			}
		}()
		c.AddAnalysis("Excel", recorder.NewAnalyzer(ctx, c.ID, r), types.NoopComparator())
	}
	if opts.redis {
		addr := os.Getenv("MARL_REDIS_ADDR")
		if addr == "" {
			addr = "127.0.0.1:6379"
		}
		r := recorder.NewRedisRecorder(addr, opts.redisKey)
		defer r.Close()
		if err := r.Ping(ctx); err != nil {
			return err
		}
		c.AddAnalysis("Redis", recorder.NewAnalyzer(ctx, c.ID, r), types.NoopComparator())
	}

	experiments := []struct {
		name   string
		policy types.Policy
	}{
		{"Random", policies.NewRandomPolicy(seed)},
		{"Random-HardMax", policies.NewHardMaxPolicy(policies.NewSoftRandomPolicy(seed))},
		{"Noop", policies.NewNoopPolicy()},
	}
	for i, e := range experiments {
		env, err := newEnvironment(scenarioName, uint64(i))
		if err != nil {
			return err
		}
		c.AddExperiment(types.NewExperiment(e.name, e.policy, env))
	}

	c.Run(ctx)
	return nil
}

func RolloutCommand() *cobra.Command {
	opts := rolloutOptions{}
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Compare the random, hard max and no-op policies on a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			stop := startProfiling()
			defer stop()
			return Rollout(ctx, opts)
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.excel, "excel", false, "Record the reward breakdowns to a workbook")
	cmd.PersistentFlags().BoolVar(&opts.redis, "redis", false, "Record the episode summaries to redis at MARL_REDIS_ADDR")
	cmd.PersistentFlags().StringVar(&opts.redisKey, "redis-key", recorder.DefaultKey, "Redis list of the episode summaries")
	cmd.PersistentFlags().BoolVar(&opts.recordTraces, "traces", false, "Record the traces of every episode")
	cmd.PersistentFlags().BoolVar(&opts.recordTimes, "times", false, "Record the episode times")
	cmd.PersistentFlags().BoolVar(&opts.heatmap, "heatmap", false, "Plot the visited positions")
	return cmd
}
