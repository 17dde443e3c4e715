package multiagent

import (
	"gonum.org/v1/gonum/floats"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// half width of the area shown by a camera
	CameraRange = 10.0
)

// EntityView is the drawable state of an entity
type EntityView struct {
	Name  string    `json:"name"`
	Pos   []float64 `json:"pos"`
	Size  float64   `json:"size"`
	Color []float64 `json:"color"`
}

// Camera is centred on Center and spans Range in every direction
type Camera struct {
	Center []float64 `json:"center"`
	Range  float64   `json:"range"`
}

// Snapshot is the render data of the world at one instant
type Snapshot struct {
	Episode    int          `json:"episode"`
	Entities   []EntityView `json:"entities"`
	Goal       []float64    `json:"goal,omitempty"`
	GoalRadius float64      `json:"goal_radius,omitempty"`
	Aggregate  []float64    `json:"aggregate,omitempty"`
	Cameras    []Camera     `json:"cameras"`
	Transcript []string     `json:"transcript"`
}

// Snapshot collects the render data of the current world state
func (e *Environment) Snapshot() *Snapshot {
	s := &Snapshot{
		Episode:    e.world.NumEpisodes(),
		Entities:   make([]EntityView, 0),
		GoalRadius: e.artifacts.GoalRadius,
		Cameras:    make([]Camera, 0),
		Transcript: make([]string, 0),
	}
	for _, entity := range e.world.Entities() {
		s.Entities = append(s.Entities, EntityView{
			Name:  entity.Name,
			Pos:   append([]float64{}, entity.State.PPos...),
			Size:  entity.Size,
			Color: append([]float64{}, entity.Color...),
		})
	}
	if e.artifacts.Goal != nil {
		s.Goal = append([]float64{}, e.artifacts.Goal...)
	}
	if e.artifacts.Aggregate != nil {
		s.Aggregate = e.artifacts.Aggregate(e.world)
	}

	if e.config.SharedViewer {
		center := make([]float64, e.world.DimP())
		if len(s.Goal) == len(center) {
			floats.ScaleTo(center, 0.5, s.Goal)
		}
		s.Cameras = append(s.Cameras, Camera{Center: center, Range: CameraRange})
	} else {
		for _, agent := range e.agents {
			s.Cameras = append(s.Cameras, Camera{
				Center: append([]float64{}, agent.State.PPos...),
				Range:  CameraRange,
			})
		}
	}

	agents := e.world.Agents()
	for _, agent := range agents {
		for _, other := range agents {
			if other == agent {
				continue
			}
			s.Transcript = append(s.Transcript, other.Name+" to "+agent.Name+": "+word(other.C))
		}
	}
	return s
}

// word uttered on a communication state
func word(c []float64) string {
	if len(c) == 0 {
		return "_"
	}
	for _, v := range c {
		if v != 0 {
			i := floats.MaxIdx(c)
			if i < len(alphabet) {
				return string(alphabet[i])
			}
			return "?"
		}
	}
	return "_"
}
