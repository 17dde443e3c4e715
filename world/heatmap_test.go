package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeu5/marl-env/types"
)

func TestPositionHeatmapAnalyzer(t *testing.T) {
	a := NewPositionHeatmapAnalyzer(2, 0.5, 1)
	trace := types.NewTrace()
	obs := []types.Observation{
		{0, 0, -0.9, -0.9},
		{0, 0, 0.1, 0.6},
		{0, 0, 5, 5},
		{0},
	}
	trace.Append(0, obs, nil, types.NewTransition(4))
	a.Analyze(0, 0, 0, "random", trace)

	ds := a.DataSet().(*VisitDataSet)
	c, r := ds.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, ds.Total())
	assert.Equal(t, 1.0, ds.Z(0, 0))
	assert.Equal(t, 1.0, ds.Z(2, 3))
	assert.InDelta(t, -0.75, ds.X(0), 1e-9)

	a.Reset()
	assert.Equal(t, 0, a.DataSet().(*VisitDataSet).Total())
}
