package decomposition

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"dimred/pkg/core"
	"dimred/pkg/kernel"
)

// KernelPCA performs PCA in the feature space induced by a kernel, using
// the kernel matrix of the training data instead of explicit coordinates.
type KernelPCA struct {
	Kernel        kernel.Params
	NComponents   int  // 0 keeps every component with a positive eigenvalue
	RemoveZeroEig bool // drop components with zero eigenvalue
	FitInverse    bool // learn a pre-image map for InverseTransform
	Alpha         float64

	Eigenvalues  []float64
	Eigenvectors *mat.Dense // n_samples x n_components

	params          kernel.Params // Kernel with gamma resolved at fit time
	xFit            [][]float64
	kFitRows        []float64
	kFitAll         float64
	xTransformedFit [][]float64
	dualCoef        *mat.Dense
}

// KernelPCAOption functional config for KernelPCA.
type KernelPCAOption func(*KernelPCA)

func WithKernel(k kernel.Kind) KernelPCAOption { return func(p *KernelPCA) { p.Kernel.Kind = k } }
func WithGamma(g float64) KernelPCAOption      { return func(p *KernelPCA) { p.Kernel.Gamma = g } }
func WithDegree(d float64) KernelPCAOption     { return func(p *KernelPCA) { p.Kernel.Degree = d } }
func WithCoef0(c float64) KernelPCAOption      { return func(p *KernelPCA) { p.Kernel.Coef0 = c } }
func WithComponents(n int) KernelPCAOption     { return func(p *KernelPCA) { p.NComponents = n } }
func WithRemoveZeroEig(b bool) KernelPCAOption { return func(p *KernelPCA) { p.RemoveZeroEig = b } }

// WithFitInverseTransform learns a kernel ridge regression from the
// embedding back to input space with ridge strength alpha.
func WithFitInverseTransform(alpha float64) KernelPCAOption {
	return func(p *KernelPCA) {
		p.FitInverse = true
		p.Alpha = alpha
	}
}

// NewKernelPCA returns a linear-kernel KernelPCA unless options say otherwise.
func NewKernelPCA(opts ...KernelPCAOption) *KernelPCA {
	p := &KernelPCA{
		Kernel: kernel.Params{Kind: kernel.Linear, Degree: 3, Coef0: 1},
		Alpha:  1,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fit computes the centered kernel matrix of X and its leading eigenpairs.
func (p *KernelPCA) Fit(X [][]float64) error {
	p.Eigenvalues, p.Eigenvectors = nil, nil
	p.xFit, p.kFitRows, p.kFitAll = nil, nil, 0
	p.dualCoef, p.xTransformedFit = nil, nil

	n, d, err := core.Shape(X)
	if err != nil {
		return err
	}
	if p.NComponents < 0 || p.NComponents > n {
		return errors.Wrapf(ErrComponents, "kernel pca: n_components=%d with %d samples", p.NComponents, n)
	}
	p.params = p.Kernel
	if p.params.Gamma == 0 {
		p.params.Gamma = 1 / float64(d)
	}

	K, err := kernel.Pairwise(X, X, p.params)
	if err != nil {
		return errors.Wrap(err, "kernel pca")
	}

	// K is symmetric, so its row means equal its column means.
	p.kFitRows = make([]float64, n)
	for j := 0; j < n; j++ {
		s := 0.0
		for i := 0; i < n; i++ {
			s += K.At(i, j)
		}
		p.kFitRows[j] = s / float64(n)
	}
	p.kFitAll = 0
	for _, v := range p.kFitRows {
		p.kFitAll += v
	}
	p.kFitAll /= float64(n)
	p.centerKernel(K, p.kFitRows)

	vals, vecs, err := eigenDesc(symmetrize(K))
	if err != nil {
		return errors.Wrap(err, "kernel pca")
	}

	k := p.NComponents
	if k == 0 {
		k = n
	}
	// eigenvalues this small relative to the largest are round-off on a
	// PSD matrix
	floor := 1e-12 * max(vals[0], 0)
	keep := make([]int, 0, k)
	for i := 0; i < k; i++ {
		if vals[i] < floor {
			vals[i] = 0
		}
		if vals[i] == 0 && (p.RemoveZeroEig || p.NComponents == 0) {
			continue
		}
		keep = append(keep, i)
	}

	if len(keep) == 0 {
		return errors.Wrap(ErrComponents, "kernel pca: every eigenvalue is zero")
	}
	p.Eigenvalues = make([]float64, len(keep))
	p.Eigenvectors = mat.NewDense(n, len(keep), nil)
	for c, idx := range keep {
		p.Eigenvalues[c] = vals[idx]
		for i := 0; i < n; i++ {
			p.Eigenvectors.Set(i, c, vecs.At(i, idx))
		}
	}
	flipSigns(p.Eigenvectors)
	p.xFit = make([][]float64, n)
	for i, row := range X {
		p.xFit[i] = append([]float64(nil), row...)
	}

	log.Debug().Int("samples", n).Str("kernel", string(p.params.Kind)).
		Float64("gamma", p.params.Gamma).Int("components", len(keep)).Msg("Kernel PCA fitted")

	if p.FitInverse {
		if err := p.fitInverse(X); err != nil {
			p.Eigenvalues, p.Eigenvectors, p.xFit = nil, nil, nil
			return err
		}
	}
	return nil
}

// centerKernel applies K[i][j] -= colMeans[j] + rowMeans[i] - kFitAll in
// place, where rowMeans are computed from K itself.
func (p *KernelPCA) centerKernel(K *mat.Dense, colMeans []float64) {
	r, c := K.Dims()
	core.ParallelRows(r, func(start, end int) {
		for i := start; i < end; i++ {
			row := K.RawRowView(i)
			rowMean := 0.0
			for _, v := range row {
				rowMean += v
			}
			rowMean /= float64(c)
			for j := range row {
				row[j] = row[j] - colMeans[j] - rowMean + p.kFitAll
			}
		}
	})
}

// embedding returns V * sqrt(lambda) for the training samples.
func (p *KernelPCA) embedding() [][]float64 {
	n, k := p.Eigenvectors.Dims()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, k)
		for c := 0; c < k; c++ {
			row[c] = p.Eigenvectors.At(i, c) * math.Sqrt(p.Eigenvalues[c])
		}
		out[i] = row
	}
	return out
}

// Transform projects new samples onto the fitted kernel components.
func (p *KernelPCA) Transform(X [][]float64) ([][]float64, error) {
	if p.Eigenvectors == nil {
		return nil, ErrNotFitted
	}
	_, d, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	if d != len(p.xFit[0]) {
		return nil, errors.Wrapf(ErrFeatureMismatch, "kernel pca: got %d features, fitted on %d", d, len(p.xFit[0]))
	}

	K, err := kernel.Pairwise(X, p.xFit, p.params)
	if err != nil {
		return nil, errors.Wrap(err, "kernel pca")
	}
	p.centerKernel(K, p.kFitRows)

	n, k := p.Eigenvectors.Dims()
	scaled := mat.NewDense(n, k, nil)
	for c := 0; c < k; c++ {
		if p.Eigenvalues[c] == 0 {
			continue
		}
		inv := 1 / math.Sqrt(p.Eigenvalues[c])
		for i := 0; i < n; i++ {
			scaled.Set(i, c, p.Eigenvectors.At(i, c)*inv)
		}
	}

	var out mat.Dense
	out.Mul(K, scaled)
	return core.Rows(&out), nil
}

// FitTransform fits on X and returns the embedding of the training samples.
func (p *KernelPCA) FitTransform(X [][]float64) ([][]float64, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	if p.xTransformedFit != nil {
		return p.xTransformedFit, nil
	}
	return p.embedding(), nil
}

// fitInverse solves (K(Z, Z) + alpha I) A = X where Z is the training
// embedding, so that a new embedding z maps back to K(z, Z) A.
func (p *KernelPCA) fitInverse(X [][]float64) error {
	Z := p.embedding()
	Kz, err := kernel.Pairwise(Z, Z, p.params)
	if err != nil {
		return errors.Wrap(err, "kernel pca inverse")
	}
	n, _ := Kz.Dims()
	for i := 0; i < n; i++ {
		Kz.Set(i, i, Kz.At(i, i)+p.Alpha)
	}
	target, err := core.Dense(X)
	if err != nil {
		return err
	}
	var dual mat.Dense
	if err := dual.Solve(Kz, target); err != nil {
		return errors.Mark(errors.Wrap(err, "kernel pca inverse"), ErrFactorization)
	}
	p.dualCoef = &dual
	p.xTransformedFit = Z
	return nil
}

// InverseTransform maps embedded samples back to approximate pre-images.
func (p *KernelPCA) InverseTransform(Z [][]float64) ([][]float64, error) {
	if p.Eigenvectors == nil {
		return nil, ErrNotFitted
	}
	if p.dualCoef == nil {
		return nil, ErrNoInverse
	}
	K, err := kernel.Pairwise(Z, p.xTransformedFit, p.params)
	if err != nil {
		return nil, errors.Wrap(err, "kernel pca inverse")
	}
	var out mat.Dense
	out.Mul(K, p.dualCoef)
	return core.Rows(&out), nil
}
