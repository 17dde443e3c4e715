package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/marl-env/multiagent"
	"github.com/zeu5/marl-env/policies"
	"github.com/zeu5/marl-env/types"
	"gonum.org/v1/gonum/floats"
)

// Batch runs the random policy on copies of the scenario stepped as one environment
func Batch(copies int) error {
	envs := make([]types.Environment, copies)
	for i := range envs {
		env, err := newEnvironment(scenarioName, uint64(i))
		if err != nil {
			return err
		}
		envs[i] = env
	}
	batch, err := multiagent.NewBatchEnvironment(envs...)
	if err != nil {
		return err
	}

	runner := types.NewRunner(&types.RunnerConfig{
		Episodes:    episodes,
		Horizon:     horizon,
		Policy:      policies.NewRandomPolicy(seed),
		Environment: batch,
	})
	err = runner.Run()

	totals := make([]float64, copies)
	for _, trace := range runner.Traces() {
		rewards := trace.TotalRewards()
		offset := 0
		for i, env := range envs {
			if len(rewards) >= offset+env.N() {
				totals[i] += floats.Sum(rewards[offset : offset+env.N()])
			}
			offset += env.N()
		}
	}
	for i, total := range totals {
		fmt.Printf("Environment %d: mean episode reward %.3f over %d episodes\n", i, total/float64(max(len(runner.Traces()), 1)), len(runner.Traces()))
	}
	return err
}

func BatchCommand() *cobra.Command {
	var copies int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Step copies of a scenario as a single environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := startProfiling()
			defer stop()
			return Batch(copies)
		},
	}
	cmd.PersistentFlags().IntVar(&copies, "copies", 2, "Number of environments in the batch")
	return cmd
}
