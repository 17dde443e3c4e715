package scenarios

import (
	"fmt"

	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/world"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Shepherding is a task where dogs drive a flock of scripted sheep into a goal area.
// The episode ends once the centre of mass of the flock is within the goal radius.
type Shepherding struct {
	dogs  int
	sheep int
	rand  *rand.Rand

	// Radius of the goal area around the destination
	GoalRadius float64
	// Distance at which sheep flee from dogs
	FleeRange float64
	// Bonus reward once the flock reaches the goal
	GoalBonus float64

	goal []float64
}

var _ Scenario = &Shepherding{}
var _ types.DoneProvider = &Shepherding{}

func NewShepherding(dogs, sheep int, src rand.Source) *Shepherding {
	return &Shepherding{
		dogs:       dogs,
		sheep:      sheep,
		rand:       rand.New(src),
		GoalRadius: 0.5,
		FleeRange:  1.0,
		GoalBonus:  10,
	}
}

func (s *Shepherding) MakeWorld() *world.World {
	w := world.New(2, 0)
	w.SharedReward = true
	s.goal = make([]float64, w.DimP())
	for i := 0; i < s.dogs; i++ {
		dog := types.NewAgent(fmt.Sprintf("dog %d", i))
		dog.Silent = true
		dog.MaxSpeed = 1.0
		dog.Color = []float64{0.85, 0.35, 0.35}
		w.AddAgent(dog)
	}
	for i := 0; i < s.sheep; i++ {
		sheep := types.NewAgent(fmt.Sprintf("sheep %d", i))
		sheep.Silent = true
		sheep.Size = 0.03
		sheep.MaxSpeed = 0.5
		sheep.Color = []float64{0.9, 0.9, 0.9}
		sheep.Script = s.flee
		w.AddAgent(sheep)
	}
	return w
}

func (s *Shepherding) ResetWorld(w types.World) (types.EpisodeArtifacts, error) {
	dimP := w.DimP()
	flock := 0
	for _, a := range w.Agents() {
		a.State.PVel = make([]float64, dimP)
		if a.IsPolicyAgent() {
			a.State.PPos = uniform(s.rand, dimP, -2, 2)
			continue
		}
		flock += 1
		a.State.PPos = uniform(s.rand, dimP, -0.5, 0.5)
	}
	if flock == 0 {
		return types.EpisodeArtifacts{}, types.NewConfigurationError("", "shepherding world has no sheep")
	}
	s.goal = uniform(s.rand, dimP, -3, 3)

	return types.EpisodeArtifacts{
		Goal:       append([]float64{}, s.goal...),
		GoalRadius: s.GoalRadius,
		Aggregate:  flockCentre,
	}, nil
}

// Reward of a dog: distance of the flock to the goal, distance of the dog to the
// flock and the bonus once the goal is reached
func (s *Shepherding) Reward(agent *types.Agent, w types.World) (float64, []float64) {
	centre := flockCentre(w)
	toGoal := floats.Distance(centre, s.goal, 2)
	toFlock := floats.Distance(agent.State.PPos, centre, 2)

	bonus := 0.0
	if toGoal <= s.GoalRadius {
		bonus = s.GoalBonus
	}
	breakdown := []float64{-toGoal, -0.1 * toFlock, bonus}
	return floats.Sum(breakdown), breakdown
}

func (s *Shepherding) Observation(agent *types.Agent, w types.World) types.Observation {
	centre := flockCentre(w)
	obs := append(types.Observation{}, agent.State.PVel...)
	obs = append(obs, agent.State.PPos...)
	obs = append(obs, relative(centre, agent.State.PPos)...)
	obs = append(obs, relative(s.goal, agent.State.PPos)...)
	for _, other := range w.PolicyAgents() {
		if other == agent {
			continue
		}
		obs = append(obs, relative(other.State.PPos, agent.State.PPos)...)
	}
	return obs
}

func (s *Shepherding) Done(_ *types.Agent, w types.World) (bool, types.Info) {
	d := floats.Distance(flockCentre(w), s.goal, 2)
	done := d <= s.GoalRadius
	return done, types.Info{
		"goal_distance": d,
		"success":       done,
	}
}

// flee moves a sheep away from every dog within range and towards the flock
func (s *Shepherding) flee(sheep *types.Agent, w types.World) types.AgentAction {
	u := make([]float64, w.DimP())
	for _, dog := range w.PolicyAgents() {
		away := relative(sheep.State.PPos, dog.State.PPos)
		d := floats.Norm(away, 2)
		if d == 0 || d > s.FleeRange {
			continue
		}
		floats.AddScaled(u, 1/(d*d), away)
	}
	floats.AddScaled(u, 0.5, relative(flockCentre(w), sheep.State.PPos))
	if n := floats.Norm(u, 2); n > 1 {
		floats.Scale(1/n, u)
	}
	return types.AgentAction{U: u, C: make([]float64, w.DimC())}
}

// flockCentre is the centre of mass of the scripted agents
func flockCentre(w types.World) []float64 {
	centre := make([]float64, w.DimP())
	count := 0
	for _, a := range w.Agents() {
		if a.IsPolicyAgent() {
			continue
		}
		floats.Add(centre, a.State.PPos)
		count += 1
	}
	if count > 0 {
		floats.Scale(1/float64(count), centre)
	}
	return centre
}
