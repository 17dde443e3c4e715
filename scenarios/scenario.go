// Package scenarios defines tasks on top of the particle world
package scenarios

import (
	"sort"
	"time"

	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/world"
	"golang.org/x/exp/rand"
)

// Scenario builds its world and supplies the environment callbacks
type Scenario interface {
	types.Scenario
	MakeWorld() *world.World
}

type constructor func(rand.Source) Scenario

var registry = map[string]constructor{
	"spread":      func(src rand.Source) Scenario { return NewSpread(3, src) },
	"shepherding": func(src rand.Source) Scenario { return NewShepherding(2, 5, src) },
}

// Names of the registered scenarios in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load creates the scenario registered under name. A zero seed uses the current time.
func Load(name string, seed uint64) (Scenario, error) {
	c, ok := registry[name]
	if !ok {
		return nil, types.NewConfigurationError("", "unknown scenario %q, expected one of %v", name, Names())
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return c(rand.NewSource(seed)), nil
}

// uniform returns dim values drawn uniformly from [low, high)
func uniform(r *rand.Rand, dim int, low, high float64) []float64 {
	out := make([]float64, dim)
	for i := range out {
		out[i] = low + (high-low)*r.Float64()
	}
	return out
}
