package benchmarks

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	episodes int
	horizon  int
	saveFile string
	runs     int

	scenarioName        string
	seed                uint64
	timeout             time.Duration
	discreteActionSpace bool
	discreteActionInput bool
	sharedViewer        bool

	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "marl",
		Short:         "Multi-agent particle environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine, everything can be set from the environment
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 100, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 550, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVar(&scenarioName, "scenario", "spread", "Scenario to load")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed, 0 uses the current time")
	rootCommand.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Timeout of each episode, 0 disables it")
	rootCommand.PersistentFlags().BoolVar(&discreteActionSpace, "discrete-action-space", true, "Use discrete physical and communication action spaces")
	rootCommand.PersistentFlags().BoolVar(&discreteActionInput, "discrete-action-input", false, "Actions are category indices instead of one-hot vectors")
	rootCommand.PersistentFlags().BoolVar(&sharedViewer, "shared-viewer", true, "Use a single camera for all agents")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to the file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to the file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(RolloutCommand())
	rootCommand.AddCommand(BatchCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(HistoryCommand())
	rootCommand.AddCommand(SpacesCommand())
	return rootCommand
}
