package types

import "encoding/json"

// Trace of an episode as triplets (observations, actions, transition)
type Trace struct {
	observations [][]Observation
	actions      [][]Action
	transitions  []*Transition

	// Reward breakdowns per agent and step, when the environment keeps them
	Breakdowns [][][]float64
}

func NewTrace() *Trace {
	return &Trace{
		observations: make([][]Observation, 0),
		actions:      make([][]Action, 0),
		transitions:  make([]*Transition, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(i-from, t.observations[i], t.actions[i], t.transitions[i])
	}
	return slicedTrace
}

func (t *Trace) Append(step int, obs []Observation, actions []Action, transition *Transition) {
	t.observations = append(t.observations, obs)
	t.actions = append(t.actions, actions)
	t.transitions = append(t.transitions, transition)
}

func (t *Trace) Len() int {
	return len(t.observations)
}

func (t *Trace) Get(i int) ([]Observation, []Action, *Transition, bool) {
	if i >= len(t.observations) {
		return nil, nil, nil, false
	}
	return t.observations[i], t.actions[i], t.transitions[i], true
}

func (t *Trace) Last() ([]Observation, []Action, *Transition, bool) {
	if len(t.observations) < 1 {
		return nil, nil, nil, false
	}
	lastIndex := len(t.observations) - 1
	return t.observations[lastIndex], t.actions[lastIndex], t.transitions[lastIndex], true
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.observations) {
		return nil, false
	}
	return &Trace{
		observations: t.observations[0:i],
		actions:      t.actions[0:i],
		transitions:  t.transitions[0:i],
	}, true
}

// TotalRewards sums the rewards of each agent over the trace
func (t *Trace) TotalRewards() []float64 {
	var totals []float64
	for _, tr := range t.transitions {
		if totals == nil {
			totals = make([]float64, len(tr.Rewards))
		}
		for i, r := range tr.Rewards {
			totals[i] += r
		}
	}
	return totals
}

// Terminal is true when the last transition reported done for any agent
func (t *Trace) Terminal() bool {
	_, _, tr, ok := t.Last()
	return ok && tr.Done()
}

type traceStep struct {
	Observations []Observation `json:"observations"`
	Actions      []Action      `json:"actions"`
	Transition   *Transition   `json:"transition"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, t.Len())
	for i := range steps {
		steps[i] = traceStep{
			Observations: t.observations[i],
			Actions:      t.actions[i],
			Transition:   t.transitions[i],
		}
	}
	return json.Marshal(map[string]interface{}{
		"steps":      steps,
		"breakdowns": t.Breakdowns,
	})
}
