package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Space describes the layout of an action or an observation.
// The set of spaces is closed: Discrete, MultiDiscrete, Box and Tuple.
type Space interface {
	// Number of raw elements consumed by the space
	Size() int
	String() string
	space()
}

// Discrete space of N categories, encoded as a one-hot vector of length N
type Discrete struct {
	N int
}

var _ Space = &Discrete{}

func (d *Discrete) space() {}

func (d *Discrete) Size() int {
	return d.N
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

func (d *Discrete) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": "discrete",
		"n":    d.N,
	})
}

// DiscreteRange is an inclusive range of category indices
type DiscreteRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Size of the one-hot segment of the range
func (r DiscreteRange) Size() int {
	return r.High - r.Low + 1
}

// MultiDiscrete packs independent discrete sub-spaces into one flat vector
type MultiDiscrete struct {
	Ranges []DiscreteRange
}

var _ Space = &MultiDiscrete{}

func (m *MultiDiscrete) space() {}

func (m *MultiDiscrete) Size() int {
	size := 0
	for _, r := range m.Ranges {
		size += r.Size()
	}
	return size
}

// Sizes of the segments in declared order
func (m *MultiDiscrete) Sizes() []int {
	sizes := make([]int, len(m.Ranges))
	for i, r := range m.Ranges {
		sizes[i] = r.Size()
	}
	return sizes
}

func (m *MultiDiscrete) String() string {
	parts := make([]string, len(m.Ranges))
	for i, r := range m.Ranges {
		parts[i] = fmt.Sprintf("[%d,%d]", r.Low, r.High)
	}
	return "MultiDiscrete(" + strings.Join(parts, ", ") + ")"
}

func (m *MultiDiscrete) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":   "multi_discrete",
		"ranges": m.Ranges,
	})
}

// Box is a continuous space bounded by [Low, High] in every dimension
type Box struct {
	Low   float64
	High  float64
	Shape []int
}

var _ Space = &Box{}

func (b *Box) space() {}

func (b *Box) Size() int {
	size := 1
	for _, s := range b.Shape {
		size *= s
	}
	return size
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(%g, %g, %v)", b.Low, b.High, b.Shape)
}

// Infinite bounds are encoded as null
func (b *Box) MarshalJSON() ([]byte, error) {
	bound := func(v float64) *float64 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(map[string]interface{}{
		"type":  "box",
		"low":   bound(b.Low),
		"high":  bound(b.High),
		"shape": b.Shape,
	})
}

// Tuple of heterogeneous sub-spaces, one action segment per member
type Tuple struct {
	Spaces []Space
}

var _ Space = &Tuple{}

func (t *Tuple) space() {}

func (t *Tuple) Size() int {
	size := 0
	for _, s := range t.Spaces {
		size += s.Size()
	}
	return size
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Spaces))
	for i, s := range t.Spaces {
		parts[i] = s.String()
	}
	return "Tuple(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":   "tuple",
		"spaces": t.Spaces,
	})
}

// SubSpaces returns the spaces that each consume one decoded segment
func SubSpaces(s Space) []Space {
	switch sp := s.(type) {
	case *MultiDiscrete:
		out := make([]Space, len(sp.Ranges))
		for i, r := range sp.Ranges {
			out[i] = &Discrete{N: r.Size()}
		}
		return out
	case *Tuple:
		return sp.Spaces
	default:
		return []Space{s}
	}
}

// SameSpace checks that two spaces have the same variant and layout
func SameSpace(a, b Space) bool {
	return a.String() == b.String()
}
