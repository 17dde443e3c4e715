package recorder

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"github.com/zeu5/marl-env/util"
)

const (
	EpisodesSheet = "Episodes"
	RewardsSheet  = "Rewards"
)

// ExcelRecorder writes the summaries into a workbook saved on Close.
// The episodes sheet has one row per episode, the rewards sheet one row per agent and step
// with the reward breakdown.
type ExcelRecorder struct {
	path string
	file *excelize.File

	lock         sync.Mutex
	episodeRow   int
	breakdownRow int
}

var _ Recorder = &ExcelRecorder{}

func NewExcelRecorder(path string) (*ExcelRecorder, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(EpisodesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(RewardsSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	episodeHeaders := []interface{}{"Comparison", "Experiment", "Run", "Episode", "Steps", "Terminal", "Total reward"}
	if err := f.SetSheetRow(EpisodesSheet, "A1", &episodeHeaders); err != nil {
		return nil, err
	}
	rewardHeaders := []interface{}{"Experiment", "Run", "Episode", "Agent", "Step", "Breakdown"}
	if err := f.SetSheetRow(RewardsSheet, "A1", &rewardHeaders); err != nil {
		return nil, err
	}

	return &ExcelRecorder{
		path:         path,
		file:         f,
		episodeRow:   2,
		breakdownRow: 2,
	}, nil
}

func (e *ExcelRecorder) Record(_ context.Context, s *EpisodeSummary) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	total := 0.0
	for _, r := range s.Rewards {
		total += r
	}
	row := []interface{}{s.ComparisonID, s.Experiment, s.Run, s.Episode, s.Steps, s.Terminal, total}
	if err := e.file.SetSheetRow(EpisodesSheet, fmt.Sprintf("A%d", e.episodeRow), &row); err != nil {
		return err
	}
	e.episodeRow++

	for agent, steps := range s.Breakdowns {
		for step, breakdown := range steps {
			row := []interface{}{s.Experiment, s.Run, s.Episode, agent, step}
			for _, v := range breakdown {
				row = append(row, v)
			}
			if err := e.file.SetSheetRow(RewardsSheet, fmt.Sprintf("A%d", e.breakdownRow), &row); err != nil {
				return err
			}
			e.breakdownRow++
		}
	}
	return nil
}

// Close saves the workbook
func (e *ExcelRecorder) Close() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	defer func() {
		if err := e.file.Close(); err != nil {
			log.Printf("failed to close workbook: %s", err)
		}
	}()

	if err := util.EnsureDir(filepath.Dir(e.path)); err != nil {
		return err
	}
	return e.file.SaveAs(e.path)
}
