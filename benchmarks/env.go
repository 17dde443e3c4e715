package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeu5/marl-env/multiagent"
	"github.com/zeu5/marl-env/scenarios"
)

func environmentConfig() multiagent.Config {
	return multiagent.Config{
		DiscreteActionSpace: discreteActionSpace,
		DiscreteActionInput: discreteActionInput,
		SharedViewer:        sharedViewer,
	}
}

// newEnvironment loads the scenario and builds an environment over a fresh world.
// offset shifts the seed so that environments of one command do not share a random stream.
func newEnvironment(name string, offset uint64) (*multiagent.Environment, error) {
	s := seed
	if s != 0 {
		s += offset
	}
	scenario, err := scenarios.Load(name, s)
	if err != nil {
		return nil, err
	}
	return multiagent.NewEnvironment(scenario.MakeWorld(), scenario, environmentConfig())
}

// signalContext is cancelled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
