package recorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/zeu5/marl-env/types"
)

func testTrace() *types.Trace {
	trace := types.NewTrace()
	for i := 0; i < 3; i++ {
		tr := types.NewTransition(2)
		tr.Observations = []types.Observation{{0}, {0}}
		tr.Rewards = []float64{1, 2}
		tr.Dones = []bool{i == 2, false}
		tr.Infos = []types.Info{{}, {}}
		trace.Append(i, []types.Observation{{0}, {0}}, nil, tr)
	}
	trace.Breakdowns = [][][]float64{
		{{1, 0}, {1, 0}, {1, 0}},
		{{2, 0}, {2, 0}, {2, 0}},
	}
	return trace
}

func TestNewEpisodeSummary(t *testing.T) {
	s := NewEpisodeSummary("random", 1, 4, testTrace())
	assert.Equal(t, 3, s.Steps)
	assert.Equal(t, []float64{3, 6}, s.Rewards)
	assert.True(t, s.Terminal)
	assert.Len(t, s.Breakdowns, 2)

	empty := NewEpisodeSummary("random", 0, 0, types.NewTrace())
	assert.Equal(t, 0, empty.Steps)
	assert.NotNil(t, empty.Rewards)
	assert.False(t, empty.Terminal)
}

type memoryRecorder struct {
	summaries []*EpisodeSummary
	err       error
}

func (m *memoryRecorder) Record(_ context.Context, s *EpisodeSummary) error {
	if m.err != nil {
		return m.err
	}
	m.summaries = append(m.summaries, s)
	return nil
}

func (m *memoryRecorder) Close() error { return nil }

func TestAnalyzer(t *testing.T) {
	m := &memoryRecorder{}
	a := NewAnalyzer(context.Background(), "cmp", m)
	a.Analyze(0, 0, 0, "random", testTrace())
	a.Analyze(0, 1, 3, "random", testTrace())

	require.Len(t, m.summaries, 2)
	assert.Equal(t, "cmp", m.summaries[1].ComparisonID)
	assert.Equal(t, 1, m.summaries[1].Episode)
	assert.Equal(t, 2, a.DataSet())

	m.err = errors.New("unavailable")
	a.Analyze(0, 2, 6, "random", testTrace())
	assert.Equal(t, 2, a.DataSet())

	a.Reset()
	assert.Equal(t, 0, a.DataSet())
}

func TestExcelRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "rewards.xlsx")
	r, err := NewExcelRecorder(path)
	require.NoError(t, err)

	s := NewEpisodeSummary("random", 0, 0, testTrace())
	require.NoError(t, r.Record(context.Background(), s))
	require.NoError(t, r.Record(context.Background(), s))
	require.NoError(t, r.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	episodes, err := f.GetRows(EpisodesSheet)
	require.NoError(t, err)
	require.Len(t, episodes, 3)
	assert.Equal(t, "random", episodes[1][1])
	assert.Equal(t, "9", episodes[1][6])

	rewards, err := f.GetRows(RewardsSheet)
	require.NoError(t, err)
	assert.Len(t, rewards, 1+2*6)
	assert.Equal(t, []string{"random", "0", "0", "1", "2", "2", "0"}, rewards[6])
}

func TestRedisRecorder(t *testing.T) {
	addr := os.Getenv("MARL_REDIS_ADDR")
	if addr == "" {
		t.Skip("MARL_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedisRecorder(addr, "marl:test:episodes")
	defer r.Close()
	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.Clear(ctx))

	require.NoError(t, r.Record(ctx, NewEpisodeSummary("random", 0, 0, testTrace())))
	require.NoError(t, r.Record(ctx, NewEpisodeSummary("noop", 0, 1, testTrace())))

	summaries, err := r.Load(ctx, 0, -1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "noop", summaries[1].Experiment)
	assert.Equal(t, []float64{3, 6}, summaries[1].Rewards)
	require.NoError(t, r.Clear(ctx))
}
