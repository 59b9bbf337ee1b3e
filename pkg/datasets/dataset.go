// Package datasets provides the toy datasets used by the walkthroughs: the
// Fisher iris measurements and a few generated 2-D shapes.
package datasets

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrFactor         = errors.New("factor must be in [0, 1)")
	ErrSamples        = errors.New("number of samples must be positive")
)

// Dataset is a feature matrix with one class label per row.
type Dataset struct {
	Name         string
	X            [][]float64
	Y            []int
	FeatureNames []string
	TargetNames  []string
}

// Samples returns the number of rows.
func (d *Dataset) Samples() int { return len(d.X) }

// Features returns the number of columns.
func (d *Dataset) Features() int {
	if len(d.X) == 0 {
		return 0
	}
	return len(d.X[0])
}

// Classes returns the number of distinct labels.
func (d *Dataset) Classes() int {
	seen := make(map[int]struct{})
	for _, y := range d.Y {
		seen[y] = struct{}{}
	}
	return len(seen)
}

// Loader builds a dataset from sample count and seed. Canned datasets ignore both.
type Loader func(samples int, noise float64, seed int64) (*Dataset, error)

var registry = map[string]Loader{
	"iris": func(int, float64, int64) (*Dataset, error) { return LoadIris() },
	"circles": func(n int, noise float64, seed int64) (*Dataset, error) {
		return MakeCircles(WithSamples(n), WithNoise(noise), WithSeed(seed), WithFactor(0.1))
	},
	"moons": func(n int, noise float64, seed int64) (*Dataset, error) {
		return MakeMoons(WithSamples(n), WithNoise(noise), WithSeed(seed))
	},
	"blobs": func(n int, noise float64, seed int64) (*Dataset, error) {
		return MakeBlobs(n, 4, 3, seed)
	},
}

// Load returns the named dataset.
func Load(name string, samples int, noise float64, seed int64) (*Dataset, error) {
	fn, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDataset, "%q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return fn(samples, noise, seed)
}

// Names lists the datasets Load understands.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
