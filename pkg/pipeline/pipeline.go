package pipeline

import (
	"github.com/cockroachdb/errors"
)

// Step is one fit/transform stage. Unsupervised steps ignore y.
type Step interface {
	Fit(X [][]float64, y []int) error
	Transform(X [][]float64) ([][]float64, error)
}

// unsupervised is the shape shared by scalers and PCA-style reducers.
type unsupervised interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

type unsupervisedStep struct{ t unsupervised }

func (s unsupervisedStep) Fit(X [][]float64, _ []int) error { return s.t.Fit(X) }
func (s unsupervisedStep) Transform(X [][]float64) ([][]float64, error) {
	return s.t.Transform(X)
}

// Unsupervised adapts a transformer that does not use labels into a Step.
func Unsupervised(t unsupervised) Step { return unsupervisedStep{t: t} }

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit fits each step on the output of the previous one.
func (p *Pipeline) Fit(X [][]float64, y []int) error {
	_, err := p.FitTransform(X, y)
	return err
}

func (p *Pipeline) FitTransform(X [][]float64, y []int) ([][]float64, error) {
	var err error
	for i, step := range p.steps {
		if err = step.Fit(X, y); err != nil {
			return nil, errors.Wrapf(err, "pipeline step %d", i)
		}
		if X, err = step.Transform(X); err != nil {
			return nil, errors.Wrapf(err, "pipeline step %d", i)
		}
	}
	return X, nil
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	var err error
	for i, step := range p.steps {
		if X, err = step.Transform(X); err != nil {
			return nil, errors.Wrapf(err, "pipeline step %d", i)
		}
	}
	return X, nil
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }
