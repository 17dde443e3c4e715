package world

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/marl-env/types"
	"github.com/zeu5/marl-env/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// VisitDataSet counts the visits of agents to the cells of a square grid
// centred at the origin
type VisitDataSet struct {
	Visits [][]int `json:"visits"`
	Cell   float64 `json:"cell"`
	Bound  float64 `json:"bound"`
}

var _ plotter.GridXYZ = &VisitDataSet{}

func newVisitDataSet(cell, bound float64) *VisitDataSet {
	cells := int(math.Ceil(2 * bound / cell))
	visits := make([][]int, cells)
	for i := range visits {
		visits[i] = make([]int, cells)
	}
	return &VisitDataSet{Visits: visits, Cell: cell, Bound: bound}
}

func (v *VisitDataSet) Dims() (int, int) {
	return len(v.Visits), len(v.Visits)
}

func (v *VisitDataSet) Z(c, r int) float64 {
	return float64(v.Visits[r][c])
}

func (v *VisitDataSet) X(c int) float64 {
	return -v.Bound + (float64(c)+0.5)*v.Cell
}

func (v *VisitDataSet) Y(r int) float64 {
	return -v.Bound + (float64(r)+0.5)*v.Cell
}

// visit counts the position, positions outside the bound are dropped
func (v *VisitDataSet) visit(x, y float64) {
	c := int(math.Floor((x + v.Bound) / v.Cell))
	r := int(math.Floor((y + v.Bound) / v.Cell))
	if c < 0 || r < 0 || c >= len(v.Visits) || r >= len(v.Visits) {
		return
	}
	v.Visits[r][c] += 1
}

// Total number of counted visits
func (v *VisitDataSet) Total() int {
	total := 0
	for _, row := range v.Visits {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// PositionHeatmapAnalyzer reads the planar position of every agent from its
// observation at PosIndex and counts the visited cells
type PositionHeatmapAnalyzer struct {
	PosIndex int
	cell     float64
	bound    float64
	dataSet  *VisitDataSet
}

var _ types.Analyzer = &PositionHeatmapAnalyzer{}

func NewPositionHeatmapAnalyzer(posIndex int, cell, bound float64) *PositionHeatmapAnalyzer {
	return &PositionHeatmapAnalyzer{
		PosIndex: posIndex,
		cell:     cell,
		bound:    bound,
		dataSet:  newVisitDataSet(cell, bound),
	}
}

func (p *PositionHeatmapAnalyzer) Analyze(_, _, _ int, _ string, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		obs, _, _, _ := trace.Get(i)
		for _, o := range obs {
			if len(o) < p.PosIndex+2 {
				continue
			}
			p.dataSet.visit(o[p.PosIndex], o[p.PosIndex+1])
		}
	}
}

func (p *PositionHeatmapAnalyzer) DataSet() types.DataSet {
	return p.dataSet
}

func (p *PositionHeatmapAnalyzer) Reset() {
	p.dataSet = newVisitDataSet(p.cell, p.bound)
}

// HeatmapComparator stores the visit counts of every experiment as json and plots them
func HeatmapComparator(figPath string) types.Comparator {
	if err := util.EnsureDir(figPath); err != nil {
		log.Printf("failed to create heatmap folder %s: %s", figPath, err)
	}
	return func(run int, names []string, ds []types.DataSet) {
		for i := 0; i < len(names); i++ {
			name := names[i]
			dataSet, ok := ds[i].(*VisitDataSet)
			if !ok {
				continue
			}
			prefix := path.Join(figPath, strconv.Itoa(run)+"_"+name)

			bs, err := json.Marshal(dataSet)
			if err == nil {
				os.WriteFile(prefix+"_visits.json", bs, 0644)
			}
			if dataSet.Total() == 0 {
				continue
			}

			p := plot.New()
			p.Title.Text = name
			p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
			if err := p.Save(4*vg.Inch, 4*vg.Inch, prefix+"_heatmap.png"); err != nil {
				log.Printf("failed to save heatmap %s: %s", name, err)
			}
		}
	}
}
