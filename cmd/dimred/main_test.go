package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimred/pkg/config"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{LogLevel: zerolog.Disabled, OutputDir: t.TempDir(), Seed: 1}
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	app := newApp(cfg)
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(context.Background(), append([]string{"dimred"}, args...))
	return buf.String(), err
}

func TestLDACommand(t *testing.T) {
	out, err := runApp(t, "lda", "--components", "1", "--quiet")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Original number of features: 4", lines[0])
	assert.Equal(t, "Reduced number of features: 1", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Explained variance ratio: [0.991"), lines[2])
}

func TestKernelPCACommand(t *testing.T) {
	out, err := runApp(t, "kpca", "-d", "circles", "--samples", "200", "--gamma", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Original number of features: 2\nReduced number of features: 1\n")
	assert.Contains(t, out, "kernel pca")
}

func TestPCACommandWithScaling(t *testing.T) {
	out, err := runApp(t, "pca", "--scale", "standard", "-n", "3", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Reduced number of features: 3")
}

func TestCommandWritesPlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lda.png")
	_, err := runApp(t, "lda", "--quiet", "--plot", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCommandReadsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	csv := "a,b,c,label\n1,2,0,0\n2,4,1,0\n3,6,0,1\n4,8,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := runApp(t, "lda", "-i", path, "--header", "--label-col", "3", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Original number of features: 3\nReduced number of features: 1\n")
}

func TestLDAWithoutLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n5,7\n"), 0o644))

	_, err := runApp(t, "lda", "-i", path)
	assert.ErrorContains(t, err, "class labels")
}

func TestUnknownScaler(t *testing.T) {
	_, err := runApp(t, "pca", "--scale", "robust")
	assert.ErrorContains(t, err, "unknown scaler")
}

func TestDatasetsCommand(t *testing.T) {
	out, err := runApp(t, "datasets")
	require.NoError(t, err)
	for _, name := range []string{"blobs", "circles", "iris", "moons"} {
		assert.Contains(t, out, name)
	}

	out, err = runApp(t, "datasets", "iris")
	require.NoError(t, err)
	assert.Contains(t, out, "iris: 150 samples, 3 classes")
	assert.Contains(t, out, "5.8433")
}

func TestLDAHeldOutAccuracy(t *testing.T) {
	out, err := runApp(t, "lda", "--test-size", "0.3", "--scale", "standard")
	require.NoError(t, err)
	assert.Contains(t, out, "Test accuracy: ")
	assert.Contains(t, out, "Confusion Matrix")
}

func TestImputeMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.csv")
	csv := "1,2,0\n2,,0\n3,6,1\nNA,8,1\n5,10,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := runApp(t, "pca", "-i", path, "--label-col", "2", "-n", "1", "--impute", "mean", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Original number of features: 2")

	_, err = runApp(t, "pca", "-i", path, "-n", "1", "--impute", "mode")
	assert.Error(t, err)
}
