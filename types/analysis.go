package types

import (
	"fmt"
	"log"
	"path"
	"strconv"

	"github.com/zeu5/marl-env/util"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RewardAnalyzer records the summed reward of all agents for every episode
type RewardAnalyzer struct {
	rewards []float64
}

var _ Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{rewards: make([]float64, 0)}
}

func (r *RewardAnalyzer) Analyze(_, _, _ int, _ string, t *Trace) {
	totals := t.TotalRewards()
	if len(totals) == 0 {
		r.rewards = append(r.rewards, 0)
		return
	}
	r.rewards = append(r.rewards, floats.Sum(totals))
}

func (r *RewardAnalyzer) DataSet() DataSet {
	out := make([]float64, len(r.rewards))
	copy(out, r.rewards)
	return out
}

func (r *RewardAnalyzer) Reset() {
	r.rewards = make([]float64, 0)
}

// EpisodeLengthAnalyzer records the number of steps of every episode
type EpisodeLengthAnalyzer struct {
	lengths []float64
}

var _ Analyzer = &EpisodeLengthAnalyzer{}

func NewEpisodeLengthAnalyzer() *EpisodeLengthAnalyzer {
	return &EpisodeLengthAnalyzer{lengths: make([]float64, 0)}
}

func (e *EpisodeLengthAnalyzer) Analyze(_, _, _ int, _ string, t *Trace) {
	e.lengths = append(e.lengths, float64(t.Len()))
}

func (e *EpisodeLengthAnalyzer) DataSet() DataSet {
	out := make([]float64, len(e.lengths))
	copy(out, e.lengths)
	return out
}

func (e *EpisodeLengthAnalyzer) Reset() {
	e.lengths = make([]float64, 0)
}

// SeriesPlotComparator plots one line per experiment of a per-episode []float64 dataset
func SeriesPlotComparator(plotPath, name, yLabel string) Comparator {
	if err := util.EnsureDir(plotPath); err != nil {
		log.Printf("failed to create plot folder %s: %s", plotPath, err)
	}
	return func(run int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			series, ok := ds[i].([]float64)
			if !ok || len(series) == 0 {
				continue
			}
			points := make(plotter.XYs, len(series))
			for j, v := range series {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
			fmt.Printf("%s: mean %s %.3f over %d episodes\n", names[i], yLabel, floats.Sum(series)/float64(len(series)), len(series))
		}
		if err := p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_"+name+".png")); err != nil {
			log.Printf("failed to save plot %s: %s", name, err)
		}
	}
}

// RewardPlotComparator plots the summed episode rewards
func RewardPlotComparator(plotPath string) Comparator {
	return SeriesPlotComparator(plotPath, "rewards", "Episode reward")
}

// EpisodeLengthPlotComparator plots the episode lengths
func EpisodeLengthPlotComparator(plotPath string) Comparator {
	return SeriesPlotComparator(plotPath, "lengths", "Episode length")
}
