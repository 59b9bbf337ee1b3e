package data

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVWithHeaderAndLabels(t *testing.T) {
	in := `a,b,label
1,2,0
3,4,1
oops,5,1
6,7,2
`
	tbl, err := ReadCSV(strings.NewReader(in), ReadOptions{LabelCol: 2, Header: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {6, 7}}, tbl.X)
	assert.Equal(t, []int{0, 1, 2}, tbl.Y)
	assert.Equal(t, 1, tbl.Skipped)
}

func TestReadCSVLabelInFirstColumn(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("1,0.5,0.25\n0,1.5,2.5\n"), ReadOptions{LabelCol: 0})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.25}, {1.5, 2.5}}, tbl.X)
	assert.Equal(t, []int{1, 0}, tbl.Y)
}

func TestReadCSVWithoutLabels(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("1,2\n3,4\n5\n"), ReadOptions{LabelCol: -1})
	require.NoError(t, err)
	assert.Nil(t, tbl.Y)
	assert.Len(t, tbl.X, 2)
	assert.Equal(t, 1, tbl.Skipped, "short row is dropped")
}

func TestReadCSVNoRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("x,y\n"), ReadOptions{LabelCol: -1, Header: true})
	assert.Error(t, err)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), ReadOptions{LabelCol: -1})
	assert.Error(t, err)
}

func TestStreamCSVCollect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,0\n3,4,1\nbad,1,1\n5,6,1\n"), 0o644))

	out := make(chan Sample)
	_, err := StreamCSV(path, 2, out)
	require.NoError(t, err)

	tbl := Collect(out, true)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, tbl.X)
	assert.Equal(t, []int{0, 1, 1}, tbl.Y)
}

func TestStreamCSVStopEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,0\n2,0\n3,0\n4,0\n"), 0o644))

	out := make(chan Sample)
	done, err := StreamCSV(path, 1, out)
	require.NoError(t, err)

	first := <-out
	assert.Equal(t, []float64{1}, first.X)
	close(done)
	for range out {
	}
}

func TestReadCSVMissingValues(t *testing.T) {
	in := "1,,0\n2,NA,1\n3,4,?\nNaN,5,1\n"

	_, err := ReadCSV(strings.NewReader(in), ReadOptions{LabelCol: 2})
	assert.Error(t, err, "every row has a gap")

	tbl, err := ReadCSV(strings.NewReader(in), ReadOptions{LabelCol: 2, AllowMissing: true})
	require.NoError(t, err)
	require.Len(t, tbl.X, 3)
	assert.Equal(t, 1, tbl.Skipped, "a missing label still drops the row")
	assert.True(t, math.IsNaN(tbl.X[0][1]))
	assert.True(t, math.IsNaN(tbl.X[2][0]))
	assert.Equal(t, []int{0, 1, 1}, tbl.Y)
}

func TestReadCSVShortLeadingRow(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("1,2\n1,2,3\n4,5,6\n"), ReadOptions{LabelCol: -1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, tbl.X)
	assert.Equal(t, 1, tbl.Skipped)
}

func TestReadCSVWidthFromHeader(t *testing.T) {
	in := "a,b,c,label\n1,2,0\n1,2,0\n1,2,3,1\n"
	tbl, err := ReadCSV(strings.NewReader(in), ReadOptions{LabelCol: 3, Header: true})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, tbl.X)
	assert.Equal(t, []int{1}, tbl.Y)
	assert.Equal(t, 2, tbl.Skipped)
}
