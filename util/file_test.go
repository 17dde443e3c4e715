package util

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToFile(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "traces.jsonl")

	require.NoError(t, AppendToFile(file, "a"))
	require.NoError(t, AppendToFile(file, "b", "c"))

	bs, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(bs))
}

func TestWriteToFileCreatesFolder(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "nested", "out.txt")

	require.NoError(t, WriteToFile(file, "x", "y"))

	bs, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", string(bs))
}
