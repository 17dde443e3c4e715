package benchmarks

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/marl-env/recorder"
	"gonum.org/v1/gonum/floats"
)

func HistoryCommand() *cobra.Command {
	var key string
	var last int64
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the episode summaries recorded in redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := os.Getenv("MARL_REDIS_ADDR")
			if addr == "" {
				addr = "127.0.0.1:6379"
			}
			r := recorder.NewRedisRecorder(addr, key)
			defer r.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if clearHistory {
				return r.Clear(ctx)
			}
			summaries, err := r.Load(ctx, -last, -1)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%s %-16s run %d episode %5d: %4d steps, reward %10.3f, terminal %v\n",
					s.Timestamp.Format("2006-01-02 15:04:05"), s.Experiment, s.Run, s.Episode, s.Steps, floats.Sum(s.Rewards), s.Terminal)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&key, "key", recorder.DefaultKey, "Redis list of the episode summaries")
	cmd.PersistentFlags().Int64Var(&last, "last", 20, "Number of most recent summaries to print")
	cmd.PersistentFlags().BoolVar(&clearHistory, "clear", false, "Delete the recorded summaries")
	return cmd
}
