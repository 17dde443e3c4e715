package types

// EpisodeArtifacts are produced by the reset callback and retained for the episode.
// They are consumed by diagnostics and never by the stepping logic.
type EpisodeArtifacts struct {
	Goal       []float64
	GoalRadius float64
	// Aggregate computes a summary position of the world (e.g. a centre of mass)
	Aggregate func(World) []float64
}

// Scenario supplies the callbacks that define a task on top of a world.
// Callbacks must not retain references to the world across calls.
type Scenario interface {
	// ResetWorld re-initializes the world for a new episode
	ResetWorld(World) (EpisodeArtifacts, error)
	// Reward of the agent and its breakdown
	Reward(*Agent, World) (float64, []float64)
	// Observation of the agent, the length must not change
	Observation(*Agent, World) Observation
}

// DoneProvider is implemented by scenarios with a terminal condition.
// Without it agents are never done.
type DoneProvider interface {
	Done(*Agent, World) (bool, Info)
}

// InfoProvider is implemented by scenarios that report benchmarking info
type InfoProvider interface {
	Info(*Agent, World) Info
}
