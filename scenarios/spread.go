package scenarios

import (
	"fmt"

	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/world"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Spread is a cooperative task where N agents cover N landmarks while avoiding
// each other. Agents can talk over the communication channels.
type Spread struct {
	n    int
	dimC int
	rand *rand.Rand
}

var _ Scenario = &Spread{}
var _ types.InfoProvider = &Spread{}

func NewSpread(n int, src rand.Source) *Spread {
	return &Spread{
		n:    n,
		dimC: 4,
		rand: rand.New(src),
	}
}

func (s *Spread) MakeWorld() *world.World {
	w := world.New(2, s.dimC)
	w.SharedReward = true
	for i := 0; i < s.n; i++ {
		a := types.NewAgent(fmt.Sprintf("agent %d", i))
		a.Size = 0.15
		a.Silent = false
		w.AddAgent(a)
	}
	for i := 0; i < s.n; i++ {
		w.AddLandmark(&types.Entity{
			Name: fmt.Sprintf("landmark %d", i),
			Size: 0.05,
		})
	}
	return w
}

func (s *Spread) ResetWorld(w types.World) (types.EpisodeArtifacts, error) {
	dimP := w.DimP()
	for _, a := range w.Agents() {
		a.Color = []float64{0.35, 0.35, 0.85}
		a.State.PPos = uniform(s.rand, dimP, -1, 1)
		a.State.PVel = make([]float64, dimP)
		a.C = make([]float64, w.DimC())
	}
	landmarks := s.landmarks(w)
	if len(landmarks) == 0 {
		return types.EpisodeArtifacts{}, types.NewConfigurationError("", "spread world has no landmarks")
	}
	goal := make([]float64, dimP)
	for _, l := range landmarks {
		l.Color = []float64{0.25, 0.25, 0.25}
		l.State.PPos = uniform(s.rand, dimP, -1, 1)
		l.State.PVel = make([]float64, dimP)
		floats.Add(goal, l.State.PPos)
	}
	floats.Scale(1/float64(len(landmarks)), goal)

	return types.EpisodeArtifacts{
		Goal:      goal,
		Aggregate: agentCentroid,
	}, nil
}

// Reward is the negative summed distance of every landmark to its closest agent,
// minus one for each collision of the agent
func (s *Spread) Reward(agent *types.Agent, w types.World) (float64, []float64) {
	coverage := -s.coverage(w)
	collisions := 0.0
	if agent.Collide {
		collisions = -float64(s.collisions(agent, w))
	}
	return coverage + collisions, []float64{coverage, collisions}
}

func (s *Spread) Observation(agent *types.Agent, w types.World) types.Observation {
	obs := append(types.Observation{}, agent.State.PVel...)
	obs = append(obs, agent.State.PPos...)
	for _, l := range s.landmarks(w) {
		obs = append(obs, relative(l.State.PPos, agent.State.PPos)...)
	}
	for _, other := range w.Agents() {
		if other == agent {
			continue
		}
		obs = append(obs, relative(other.State.PPos, agent.State.PPos)...)
	}
	for _, other := range w.Agents() {
		if other == agent {
			continue
		}
		obs = append(obs, other.C...)
	}
	return obs
}

func (s *Spread) Info(agent *types.Agent, w types.World) types.Info {
	occupied := 0
	for _, l := range s.landmarks(w) {
		if minDistance(l.State.PPos, w.Agents()) < 0.1 {
			occupied += 1
		}
	}
	return types.Info{
		"collisions":         s.collisions(agent, w),
		"min_dists":          s.coverage(w),
		"occupied_landmarks": occupied,
	}
}

func (s *Spread) landmarks(w types.World) []*types.Entity {
	agents := len(w.Agents())
	return w.Entities()[agents:]
}

func (s *Spread) coverage(w types.World) float64 {
	total := 0.0
	for _, l := range s.landmarks(w) {
		total += minDistance(l.State.PPos, w.Agents())
	}
	return total
}

func (s *Spread) collisions(agent *types.Agent, w types.World) int {
	count := 0
	for _, other := range w.Agents() {
		if other != agent && other.Collide && colliding(&agent.Entity, &other.Entity) {
			count += 1
		}
	}
	return count
}

func relative(pos, origin []float64) []float64 {
	out := make([]float64, len(pos))
	floats.SubTo(out, pos, origin)
	return out
}

func minDistance(pos []float64, agents []*types.Agent) float64 {
	dists := make([]float64, len(agents))
	for i, a := range agents {
		dists[i] = floats.Distance(pos, a.State.PPos, 2)
	}
	return floats.Min(dists)
}

func colliding(a, b *types.Entity) bool {
	return floats.Distance(a.State.PPos, b.State.PPos, 2) < a.Size+b.Size
}

func agentCentroid(w types.World) []float64 {
	centroid := make([]float64, w.DimP())
	agents := w.Agents()
	for _, a := range agents {
		floats.Add(centroid, a.State.PPos)
	}
	if len(agents) > 0 {
		floats.Scale(1/float64(len(agents)), centroid)
	}
	return centroid
}
