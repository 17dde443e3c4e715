package types

// Policy supplies the joint action of all agents of an environment
type Policy interface {
	// Called at the end of every episode with the episode trace
	UpdateIteration(int, *Trace)
	// Joint action for the current observations, false to stop the episode
	NextActions(int, []Observation, []Space) ([]Action, bool)
	// Called after every step
	Update(int, []Observation, []Action, *Transition)
	Reset()
}
