package types

// Entity is a physical object of the world
type Entity struct {
	Name     string
	Size     float64
	Movable  bool
	Collide  bool
	Mass     float64 // 0 means unit mass
	MaxSpeed float64 // 0 means unbounded
	Color    []float64
	State    EntityState
}

// EntityState is the physical state of an entity
type EntityState struct {
	PPos []float64 `json:"p_pos"`
	PVel []float64 `json:"p_vel"`
}

// GetMass returns the mass used for integration
func (e *Entity) GetMass() float64 {
	if e.Mass <= 0 {
		return 1.0
	}
	return e.Mass
}

// AgentAction is the primitive command applied to an agent for one tick
type AgentAction struct {
	U []float64 `json:"u"`
	C []float64 `json:"c"`
}

// ScriptFunc computes the action of a scripted (non policy) agent
type ScriptFunc func(*Agent, World) AgentAction

// Agent is an entity that acts and communicates
type Agent struct {
	Entity
	Silent bool
	// Acceleration sensitivity, nil means the default sensitivity
	Accel *float64
	// Bound of the continuous physical action
	URange float64
	// Communication state
	C      []float64
	Action AgentAction
	// When set the agent is scripted and not controlled by a policy
	Script ScriptFunc
}

// NewAgent creates a movable, colliding agent
func NewAgent(name string) *Agent {
	return &Agent{
		Entity: Entity{
			Name:    name,
			Size:    0.05,
			Movable: true,
			Collide: true,
		},
		URange: 1.0,
	}
}

// IsPolicyAgent is true when the agent action is supplied externally
func (a *Agent) IsPolicyAgent() bool {
	return a.Script == nil
}
