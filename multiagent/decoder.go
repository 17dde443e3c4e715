package multiagent

import (
	"fmt"

	"github.com/zeu5/marl-env/types"
	"gonum.org/v1/gonum/floats"
)

// DefaultSensitivity scales physical commands of agents without an acceleration
const DefaultSensitivity = 5.0

// directionTable maps the discrete input index to a planar movement.
// The values are kept literally, previously trained policies depend on them.
var directionTable = [discreteInputMovements][2]float64{
	{0, 1.0},
	{1.0, 1.0},
	{1.0, 0},
	{1.0, -1.0},
	{0, -1.0},
	{-1.0, -1.0},
	{-1.0, 0},
	{-1.0, 1.0},
	{0, 0.5},
	{0.5, 0.5},
	{0.5, 0},
	{0.5, -0.5},
	{0, -0.5},
	{-0.5, -0.5},
	{-0.5, 0},
	{-0.5, 0.5},
}

// Command is the decoded primitive command of an agent for one tick
type Command struct {
	U []float64
	C []float64
}

// apply writes the command into the agent action state
func (c Command) apply(agent *types.Agent) {
	agent.Action.U = c.U
	agent.Action.C = c.C
}

// decoder converts raw actions into commands for one environment
type decoder struct {
	mode decodingMode
	dimP int
	dimC int
}

// decode converts the raw action of an agent. Every element of the action must be
// consumed exactly once. The raw action is never modified.
func (d *decoder) decode(action types.Action, agent *types.Agent, space types.Space) (Command, error) {
	cmd := Command{
		U: make([]float64, d.dimP),
		C: make([]float64, d.dimC),
	}

	segments, err := d.split(action, agent, space)
	if err != nil {
		return cmd, err
	}
	subSpaces := types.SubSpaces(space)

	next := 0
	consume := func(what string) ([]float64, error) {
		if next >= len(segments) || next >= len(subSpaces) {
			return nil, types.NewActionShapeError(agent.Name, len(subSpaces), len(segments), "missing "+what+" action")
		}
		seg, sub := segments[next], subSpaces[next]
		next++
		if err := d.checkSegment(seg, sub, agent, what); err != nil {
			return nil, err
		}
		return seg, nil
	}

	if agent.Movable {
		seg, err := consume("physical")
		if err != nil {
			return cmd, err
		}
		u, err := d.decodePhysical(seg, agent)
		if err != nil {
			return cmd, err
		}
		cmd.U = u
	}

	if !agent.Silent {
		seg, err := consume("communication")
		if err != nil {
			return cmd, err
		}
		c, err := d.decodeCommunication(seg, agent)
		if err != nil {
			return cmd, err
		}
		cmd.C = c
	}

	if next != len(segments) {
		return cmd, types.NewActionShapeError(agent.Name, next, len(segments), "unconsumed action segments")
	}
	return cmd, nil
}

// split the raw action into one segment per sub-space
func (d *decoder) split(action types.Action, agent *types.Agent, space types.Space) ([][]float64, error) {
	md, ok := space.(*types.MultiDiscrete)
	if !ok {
		return action, nil
	}
	if len(action) != 1 {
		return nil, types.NewActionShapeError(agent.Name, 1, len(action), "multi discrete action must be a single flat vector")
	}
	flat := action[0]
	if len(flat) != md.Size() {
		return nil, types.NewActionShapeError(agent.Name, md.Size(), len(flat), "multi discrete action length")
	}
	segments := make([][]float64, 0, len(md.Ranges))
	index := 0
	for _, s := range md.Sizes() {
		segments = append(segments, flat[index:index+s])
		index += s
	}
	return segments, nil
}

// checkSegment validates the length of a segment against its sub-space.
// In discrete input mode a discrete segment may also be a single index.
func (d *decoder) checkSegment(seg []float64, sub types.Space, agent *types.Agent, what string) error {
	if len(seg) == 0 && sub.Size() > 0 {
		return types.NewActionShapeError(agent.Name, sub.Size(), 0, "empty "+what+" action")
	}
	if _, ok := sub.(*types.Discrete); ok && d.mode.discreteActionInput && len(seg) == 1 {
		return nil
	}
	if len(seg) != sub.Size() {
		return types.NewActionShapeError(agent.Name, sub.Size(), len(seg), what+" action length")
	}
	return nil
}

// index of a discrete input segment, either the literal index or the arg-max
func (d *decoder) index(seg []float64, n int, agent *types.Agent, what string) (int, error) {
	var i int
	if len(seg) == 1 && n > 1 {
		i = int(seg[0])
		if float64(i) != seg[0] {
			return 0, types.NewActionShapeError(agent.Name, n, i, fmt.Sprintf("%s index %g is not integral", what, seg[0]))
		}
	} else {
		i = floats.MaxIdx(seg)
	}
	if i < 0 || i >= n {
		return 0, types.NewActionShapeError(agent.Name, n, i, what+" index out of range")
	}
	return i, nil
}

func (d *decoder) decodePhysical(seg []float64, agent *types.Agent) ([]float64, error) {
	u := make([]float64, d.dimP)

	if d.mode.discreteActionInput {
		i, err := d.index(seg, discreteInputMovements, agent, "physical")
		if err != nil {
			return nil, err
		}
		u[0] = directionTable[i][0]
		u[1] = directionTable[i][1]
	} else {
		vec := append([]float64{}, seg...)
		if d.mode.forceDiscreteAction {
			oneHot(vec, floats.MaxIdx(vec))
		}
		if d.mode.discreteActionSpace {
			// indices 2d+1 and 2d+2 push along +d and -d, index 0 is the no-op
			for dim := 0; dim < d.dimP; dim++ {
				u[dim] += vec[2*dim+1] - vec[2*dim+2]
			}
		} else {
			if len(vec) != d.dimP {
				return nil, types.NewActionShapeError(agent.Name, d.dimP, len(vec), "physical action length")
			}
			copy(u, vec)
		}
	}

	sensitivity := DefaultSensitivity
	if agent.Accel != nil {
		sensitivity = *agent.Accel
	}
	floats.Scale(sensitivity, u)
	return u, nil
}

func (d *decoder) decodeCommunication(seg []float64, agent *types.Agent) ([]float64, error) {
	c := make([]float64, d.dimC)
	if d.mode.discreteActionInput {
		i, err := d.index(seg, d.dimC, agent, "communication")
		if err != nil {
			return nil, err
		}
		c[i] = 1.0
		return c, nil
	}
	if len(seg) != d.dimC {
		return nil, types.NewActionShapeError(agent.Name, d.dimC, len(seg), "communication action length")
	}
	copy(c, seg)
	return c, nil
}

// oneHot sets vec to the one-hot vector at index i
func oneHot(vec []float64, i int) {
	for j := range vec {
		vec[j] = 0
	}
	vec[i] = 1.0
}
