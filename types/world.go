package types

// World owns the entities and advances their physical and communication state.
// Only the environment writes agent actions, once per agent per tick.
type World interface {
	// All entities, agents first
	Entities() []*Entity
	// All agents, policy controlled and scripted
	Agents() []*Agent
	// Agents whose action is supplied by a policy
	PolicyAgents() []*Agent
	// Physical dimensionality
	DimP() int
	// Communication channel dimensionality
	DimC() int
	// Advance physics and communication by one tick
	Step()
	NumEpisodes() int
	IncrementEpisodes()
}

// CollaborativeWorld is implemented by worlds that can declare a fully cooperative setting
type CollaborativeWorld interface {
	Collaborative() bool
}

// DiscreteActionWorld is implemented by worlds that force continuous actions to be discrete
type DiscreteActionWorld interface {
	DiscreteAction() bool
}
