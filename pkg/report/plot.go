package report

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"dimred/pkg/core"
)

var palette = []color.RGBA{
	{R: 228, G: 26, B: 28, A: 255},
	{R: 55, G: 126, B: 184, A: 255},
	{R: 77, G: 175, B: 74, A: 255},
	{R: 152, G: 78, B: 163, A: 255},
	{R: 255, G: 127, B: 0, A: 255},
}

// Scatter saves a plot of reduced data coloured by class. Two or more
// columns plot the first two against each other; a single column is drawn
// as one strip per class. The image format follows the file extension.
func Scatter(path string, Z [][]float64, y []int, title string) error {
	_, c, err := core.Shape(Z)
	if err != nil {
		return err
	}
	if y != nil && len(y) != len(Z) {
		return errors.Newf("scatter: %d labels for %d samples", len(y), len(Z))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Component 1"
	if c > 1 {
		p.Y.Label.Text = "Component 2"
	} else {
		p.Y.Label.Text = "Class"
	}

	classes, groups := groupByClass(Z, y, c > 1)
	for n, class := range classes {
		s, err := plotter.NewScatter(groups[class])
		if err != nil {
			return errors.Wrap(err, "scatter")
		}
		s.Color = palette[n%len(palette)]
		s.Shape = draw.CircleGlyph{}
		s.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %d", class), s)
	}
	p.Legend.Top = true

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// groupByClass splits the points by label and returns the labels sorted,
// so a class keeps its colour however the rows are ordered. Without labels
// every point is class 0.
func groupByClass(Z [][]float64, y []int, twoD bool) ([]int, map[int]plotter.XYs) {
	groups := map[int]plotter.XYs{}
	for i, row := range Z {
		class := 0
		if y != nil {
			class = y[i]
		}
		pt := plotter.XY{X: row[0], Y: float64(class)}
		if twoD {
			pt.Y = row[1]
		}
		groups[class] = append(groups[class], pt)
	}
	classes := make([]int, 0, len(groups))
	for class := range groups {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes, groups
}
