package datasets

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// ShapeConfig holds the knobs shared by the 2-D shape generators.
type ShapeConfig struct {
	Samples int
	Noise   float64 // standard deviation of Gaussian noise, 0 for none
	Factor  float64 // inner/outer radius ratio, circles only
	Seed    int64
	Shuffle bool
}

// ShapeOption functional config for the shape generators.
type ShapeOption func(*ShapeConfig)

func WithSamples(n int) ShapeOption        { return func(c *ShapeConfig) { c.Samples = n } }
func WithNoise(sd float64) ShapeOption     { return func(c *ShapeConfig) { c.Noise = sd } }
func WithFactor(f float64) ShapeOption     { return func(c *ShapeConfig) { c.Factor = f } }
func WithSeed(seed int64) ShapeOption      { return func(c *ShapeConfig) { c.Seed = seed } }
func WithShuffle(shuffle bool) ShapeOption { return func(c *ShapeConfig) { c.Shuffle = shuffle } }

func newShapeConfig(opts []ShapeOption) ShapeConfig {
	c := ShapeConfig{
		Samples: 100,
		Factor:  0.8,
		Seed:    time.Now().UnixNano(),
		Shuffle: true,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// MakeCircles generates a large circle containing a smaller one. Outer
// points are labelled 0 and inner points 1; with no noise the two classes
// are not linearly separable but are separable by radius.
func MakeCircles(opts ...ShapeOption) (*Dataset, error) {
	c := newShapeConfig(opts)
	if c.Samples <= 0 {
		return nil, ErrSamples
	}
	if c.Factor < 0 || c.Factor >= 1 {
		return nil, errors.Wrapf(ErrFactor, "got %v", c.Factor)
	}

	nOut := c.Samples / 2
	nIn := c.Samples - nOut
	X := make([][]float64, 0, c.Samples)
	y := make([]int, 0, c.Samples)

	// angles are linspace(0, 2π, k) without the endpoint
	for i := 0; i < nOut; i++ {
		theta := 2 * math.Pi * float64(i) / float64(nOut)
		X = append(X, []float64{math.Cos(theta), math.Sin(theta)})
		y = append(y, 0)
	}
	for i := 0; i < nIn; i++ {
		theta := 2 * math.Pi * float64(i) / float64(nIn)
		X = append(X, []float64{c.Factor * math.Cos(theta), c.Factor * math.Sin(theta)})
		y = append(y, 1)
	}

	rng := rand.New(rand.NewSource(c.Seed))
	finish(rng, c, X, y)
	return &Dataset{
		Name:         "circles",
		X:            X,
		Y:            y,
		FeatureNames: []string{"x0", "x1"},
		TargetNames:  []string{"outer", "inner"},
	}, nil
}

// MakeMoons generates two interleaving half circles.
func MakeMoons(opts ...ShapeOption) (*Dataset, error) {
	c := newShapeConfig(opts)
	if c.Samples <= 0 {
		return nil, ErrSamples
	}

	nOut := c.Samples / 2
	nIn := c.Samples - nOut
	X := make([][]float64, 0, c.Samples)
	y := make([]int, 0, c.Samples)

	for i := 0; i < nOut; i++ {
		theta := math.Pi * linspaceAt(i, nOut)
		X = append(X, []float64{math.Cos(theta), math.Sin(theta)})
		y = append(y, 0)
	}
	for i := 0; i < nIn; i++ {
		theta := math.Pi * linspaceAt(i, nIn)
		X = append(X, []float64{1 - math.Cos(theta), 1 - math.Sin(theta) - 0.5})
		y = append(y, 1)
	}

	rng := rand.New(rand.NewSource(c.Seed))
	finish(rng, c, X, y)
	return &Dataset{
		Name:         "moons",
		X:            X,
		Y:            y,
		FeatureNames: []string{"x0", "x1"},
		TargetNames:  []string{"upper", "lower"},
	}, nil
}

// MakeBlobs generates isotropic Gaussian clusters with unit variance around
// centers drawn uniformly from [-5, 5) in every feature.
func MakeBlobs(nSamples, nFeatures, nClasses int, seed int64) (*Dataset, error) {
	if nSamples <= 0 || nFeatures <= 0 || nClasses <= 0 {
		return nil, ErrSamples
	}
	rng := rand.New(rand.NewSource(seed))

	centers := make([][]float64, nClasses)
	for i := range centers {
		centers[i] = make([]float64, nFeatures)
		for j := range centers[i] {
			centers[i][j] = rng.Float64()*10 - 5
		}
	}

	X := make([][]float64, nSamples)
	y := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		class := i % nClasses
		X[i] = make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			X[i][j] = centers[class][j] + rng.NormFloat64()
		}
		y[i] = class
	}
	rng.Shuffle(nSamples, func(i, j int) {
		X[i], X[j] = X[j], X[i]
		y[i], y[j] = y[j], y[i]
	})

	names := make([]string, nFeatures)
	targets := make([]string, nClasses)
	for j := range names {
		names[j] = "x" + strconv.Itoa(j)
	}
	for k := range targets {
		targets[k] = "blob" + strconv.Itoa(k)
	}
	return &Dataset{Name: "blobs", X: X, Y: y, FeatureNames: names, TargetNames: targets}, nil
}

// linspaceAt is the i-th of k evenly spaced points on [0, 1], endpoint included.
func linspaceAt(i, k int) float64 {
	if k == 1 {
		return 0
	}
	return float64(i) / float64(k-1)
}

// finish shuffles X and y together and then adds noise.
func finish(rng *rand.Rand, c ShapeConfig, X [][]float64, y []int) {
	if c.Shuffle {
		rng.Shuffle(len(X), func(i, j int) {
			X[i], X[j] = X[j], X[i]
			y[i], y[j] = y[j], y[i]
		})
	}
	if c.Noise > 0 {
		for _, row := range X {
			for j := range row {
				row[j] += rng.NormFloat64() * c.Noise
			}
		}
	}
}
