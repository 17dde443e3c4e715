package benchmarks

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/marl-env/types"
)

func execute(args ...string) error {
	cmd := GetRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestSpacesCommand(t *testing.T) {
	require.NoError(t, execute("spaces", "--scenario", "shepherding", "--json"))
	require.NoError(t, execute("spaces", "--scenario", "spread", "--discrete-action-space=false"))

	err := execute("spaces", "--scenario", "tag")
	assert.ErrorIs(t, err, types.ErrConfiguration)

	err = execute("spaces", "--discrete-action-space=false", "--discrete-action-input")
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestRolloutCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, execute("rollout", "-e", "3", "--horizon", "5", "-s", dir, "--seed", "1", "--excel", "--heatmap"))

	for _, f := range []string{"comparison_config.json", "0_rewards.png", "0_lengths.png", "rewards.xlsx"} {
		_, err := os.Stat(path.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestBatchCommand(t *testing.T) {
	require.NoError(t, execute("batch", "-e", "2", "--horizon", "4", "--copies", "3", "--seed", "5"))
}
