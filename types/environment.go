package types

// Environment is the step/reset protocol exposed to the training loop.
// All returned sequences are aligned with the agent order of the environment.
type Environment interface {
	// Number of policy agents
	N() int
	// Per agent action spaces, fixed after construction
	ActionSpace() []Space
	// Per agent observation spaces, fixed after construction
	ObservationSpace() []Space
	// Reset called at the start of each episode
	Reset() ([]Observation, error)
	// Step advances the environment by one tick given one raw action per agent
	Step([]Action) (*Transition, error)
}

// RewardHistoryProvider is implemented by environments that keep the per agent
// reward breakdowns of the current episode.
type RewardHistoryProvider interface {
	// agent, step, breakdown
	RewardHistory() [][][]float64
}

// Observation of a single agent
type Observation []float64

// Info contains diagnostic values reported for a single agent
type Info map[string]interface{}

// Action is the raw action of a single agent as an ordered sequence of segments.
// MultiDiscrete spaces expect one flat segment, Tuple spaces expect one segment per
// member and all other spaces expect exactly one segment.
type Action [][]float64

// FlatAction builds a single segment action
func FlatAction(values ...float64) Action {
	return Action{values}
}

// Len returns the total number of elements over all segments
func (a Action) Len() int {
	l := 0
	for _, s := range a {
		l += len(s)
	}
	return l
}

// Copy returns a deep copy of the action
func (a Action) Copy() Action {
	out := make(Action, len(a))
	for i, s := range a {
		out[i] = append([]float64{}, s...)
	}
	return out
}

// Transition is the result of a single environment step
type Transition struct {
	Observations []Observation `json:"observations"`
	Rewards      []float64     `json:"rewards"`
	Dones        []bool        `json:"dones"`
	Infos        []Info        `json:"infos"`
}

// NewTransition allocates a transition for n agents
func NewTransition(n int) *Transition {
	return &Transition{
		Observations: make([]Observation, 0, n),
		Rewards:      make([]float64, 0, n),
		Dones:        make([]bool, 0, n),
		Infos:        make([]Info, 0, n),
	}
}

// Done is true when any of the agents reports done
func (t *Transition) Done() bool {
	for _, d := range t.Dones {
		if d {
			return true
		}
	}
	return false
}

// Append concatenates the other transition to this one
func (t *Transition) Append(other *Transition) {
	t.Observations = append(t.Observations, other.Observations...)
	t.Rewards = append(t.Rewards, other.Rewards...)
	t.Dones = append(t.Dones, other.Dones...)
	t.Infos = append(t.Infos, other.Infos...)
}
