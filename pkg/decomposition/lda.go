package decomposition

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"dimred/pkg/core"
	"dimred/pkg/stats"
)

// Solver selects how LinearDiscriminantAnalysis computes its scalings.
type Solver string

const (
	// SolverSVD works on the data directly and never forms the covariance
	// matrices, so it copes with many features.
	SolverSVD Solver = "svd"
	// SolverEigen solves Sb v = lambda Sw v; Sw must be positive definite.
	SolverEigen Solver = "eigen"
)

// LinearDiscriminantAnalysis finds the projection that best separates
// classes, assuming every class shares one covariance matrix. It is both a
// supervised reducer and a linear classifier.
type LinearDiscriminantAnalysis struct {
	NComponents int // 0 means min(n_classes - 1, n_features)
	Solver      Solver
	Tol         float64   // rank threshold on singular values, svd solver only
	Priors      []float64 // class priors; nil uses class proportions

	Classes                []int
	Means                  [][]float64 // n_classes x d
	ClassPriors            []float64
	Xbar                   []float64
	Scalings               *mat.Dense // d x rank
	ExplainedVarianceRatio []float64
	Coef                   *mat.Dense // n_classes x d
	Intercept              []float64

	nFeatures     int
	maxComponents int
}

// LDAOption functional config for LinearDiscriminantAnalysis.
type LDAOption func(*LinearDiscriminantAnalysis)

func WithLDAComponents(n int) LDAOption {
	return func(l *LinearDiscriminantAnalysis) { l.NComponents = n }
}

func WithSolver(s Solver) LDAOption {
	return func(l *LinearDiscriminantAnalysis) { l.Solver = s }
}

func WithTol(t float64) LDAOption {
	return func(l *LinearDiscriminantAnalysis) { l.Tol = t }
}

func WithPriors(p []float64) LDAOption {
	return func(l *LinearDiscriminantAnalysis) { l.Priors = p }
}

// NewLDA returns an svd-solver LDA keeping every discriminant unless told otherwise.
func NewLDA(opts ...LDAOption) *LinearDiscriminantAnalysis {
	l := &LinearDiscriminantAnalysis{Solver: SolverSVD, Tol: 1e-4}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Fit estimates class means, priors and the discriminant scalings.
// A failed Fit leaves the model unfitted.
func (l *LinearDiscriminantAnalysis) Fit(X [][]float64, y []int) error {
	if err := l.fit(X, y); err != nil {
		l.reset()
		return err
	}
	return nil
}

func (l *LinearDiscriminantAnalysis) fit(X [][]float64, y []int) error {
	l.reset()
	n, d, err := core.Shape(X)
	if err != nil {
		return err
	}
	if len(y) != n {
		return errors.Wrapf(ErrLabelMismatch, "lda: %d labels for %d samples", len(y), n)
	}

	idx := l.indexClasses(y)
	nClasses := len(l.Classes)
	if nClasses < 2 {
		return errors.Wrapf(ErrTooFewClasses, "lda: got %d", nClasses)
	}
	if n <= nClasses {
		return errors.Wrapf(ErrTooFewClasses, "lda: %d samples for %d classes", n, nClasses)
	}
	maxComp := min(nClasses-1, d)
	if l.NComponents < 0 || l.NComponents > maxComp {
		return errors.Wrapf(ErrTooManyComponents, "lda: n_components=%d, max %d", l.NComponents, maxComp)
	}
	l.maxComponents = maxComp
	if l.NComponents > 0 {
		l.maxComponents = l.NComponents
	}
	l.nFeatures = d

	if err := l.estimatePriors(idx, n); err != nil {
		return err
	}
	l.Means = classMeans(X, idx, nClasses)
	l.Xbar = make([]float64, d)
	for k, m := range l.Means {
		floats.AddScaled(l.Xbar, l.ClassPriors[k], m)
	}

	switch l.Solver {
	case SolverSVD, "":
		err = l.solveSVD(X, idx)
	case SolverEigen:
		err = l.solveEigen(X, idx)
	default:
		err = errors.Wrapf(ErrUnknownSolver, "lda: %q", l.Solver)
	}
	if err != nil {
		return err
	}

	log.Debug().Int("samples", n).Int("features", d).Int("classes", nClasses).
		Str("solver", string(l.Solver)).Floats64("ratio", l.ExplainedVarianceRatio).Msg("LDA fitted")
	return nil
}

// reset drops every fitted field so a failed Fit leaves the model unfitted
// instead of mixing state from two fits.
func (l *LinearDiscriminantAnalysis) reset() {
	l.Classes, l.Means, l.ClassPriors, l.Xbar = nil, nil, nil, nil
	l.Scalings, l.Coef, l.Intercept = nil, nil, nil
	l.ExplainedVarianceRatio = nil
	l.nFeatures, l.maxComponents = 0, 0
}

// indexClasses records the sorted distinct labels and maps each sample to
// its class index.
func (l *LinearDiscriminantAnalysis) indexClasses(y []int) []int {
	seen := make(map[int]struct{})
	for _, v := range y {
		seen[v] = struct{}{}
	}
	l.Classes = make([]int, 0, len(seen))
	for v := range seen {
		l.Classes = append(l.Classes, v)
	}
	sort.Ints(l.Classes)

	pos := make(map[int]int, len(l.Classes))
	for i, c := range l.Classes {
		pos[c] = i
	}
	idx := make([]int, len(y))
	for i, v := range y {
		idx[i] = pos[v]
	}
	return idx
}

func (l *LinearDiscriminantAnalysis) estimatePriors(idx []int, n int) error {
	nClasses := len(l.Classes)
	if l.Priors != nil {
		if len(l.Priors) != nClasses {
			return errors.Newf("lda: %d priors for %d classes", len(l.Priors), nClasses)
		}
		for _, p := range l.Priors {
			if p < 0 {
				return errors.New("lda: priors must be non-negative")
			}
		}
		total := floats.Sum(l.Priors)
		if total == 0 {
			return errors.New("lda: priors sum to zero")
		}
		l.ClassPriors = make([]float64, nClasses)
		floats.ScaleTo(l.ClassPriors, 1/total, l.Priors)
		return nil
	}
	l.ClassPriors = make([]float64, nClasses)
	for _, k := range idx {
		l.ClassPriors[k]++
	}
	floats.Scale(1/float64(n), l.ClassPriors)
	return nil
}

func classMeans(X [][]float64, idx []int, nClasses int) [][]float64 {
	d := len(X[0])
	means := make([][]float64, nClasses)
	counts := make([]float64, nClasses)
	for k := range means {
		means[k] = make([]float64, d)
	}
	for i, row := range X {
		floats.Add(means[idx[i]], row)
		counts[idx[i]]++
	}
	for k := range means {
		floats.Scale(1/counts[k], means[k])
	}
	return means
}

// solveSVD whitens the within-class scatter with an SVD of the scaled
// within-class deviations, then finds the directions of largest
// between-class spread with a second SVD of the whitened class means.
func (l *LinearDiscriminantAnalysis) solveSVD(X [][]float64, idx []int) error {
	n, d := len(X), len(X[0])
	nClasses := len(l.Classes)

	Xc := make([][]float64, n)
	for i, row := range X {
		Xc[i] = make([]float64, d)
		floats.SubTo(Xc[i], row, l.Means[idx[i]])
	}

	std := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := range Xc {
			col[i] = Xc[i][j]
		}
		_, variance := stat.PopMeanVariance(col, nil)
		std[j] = math.Sqrt(variance)
		if std[j] == 0 {
			std[j] = 1
		}
	}

	fac := math.Sqrt(1 / float64(n-nClasses))
	white := mat.NewDense(n, d, nil)
	for i, row := range Xc {
		for j, v := range row {
			white.Set(i, j, fac*v/std[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(white, mat.SVDThin); !ok {
		return errors.Wrap(ErrFactorization, "lda: within-class svd")
	}
	s := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	rank := 0
	for _, sv := range s {
		if sv > l.Tol {
			rank++
		}
	}
	if rank == 0 {
		return errors.Wrap(ErrFactorization, "lda: within-class scatter has rank 0")
	}
	scalings := mat.NewDense(d, rank, nil)
	for j := 0; j < d; j++ {
		for r := 0; r < rank; r++ {
			scalings.Set(j, r, v.At(j, r)/std[j]/s[r])
		}
	}

	fac2 := 1 / float64(nClasses-1)
	between := mat.NewDense(nClasses, d, nil)
	for k, m := range l.Means {
		w := math.Sqrt(float64(n) * l.ClassPriors[k] * fac2)
		for j := 0; j < d; j++ {
			between.Set(k, j, w*(m[j]-l.Xbar[j]))
		}
	}
	var projected mat.Dense
	projected.Mul(between, scalings)

	var svd2 mat.SVD
	if ok := svd2.Factorize(&projected, mat.SVDThin); !ok {
		return errors.Wrap(ErrFactorization, "lda: between-class svd")
	}
	s2 := svd2.Values(nil)
	var v2 mat.Dense
	svd2.VTo(&v2)

	if len(s2) == 0 || s2[0] == 0 {
		return errors.Wrap(ErrFactorization, "lda: class means coincide")
	}
	sumSq := 0.0
	for _, sv := range s2 {
		sumSq += sv * sv
	}
	ratio := make([]float64, len(s2))
	for i, sv := range s2 {
		ratio[i] = sv * sv / sumSq
	}
	l.ExplainedVarianceRatio = ratio[:min(l.maxComponents, len(ratio))]

	rank2 := 0
	for _, sv := range s2 {
		if sv > l.Tol*s2[0] {
			rank2++
		}
	}
	l.Scalings = mat.NewDense(d, rank2, nil)
	l.Scalings.Mul(scalings, firstColumns(&v2, rank2))

	// coef = (means - xbar) S S^T, intercept corrected for the xbar shift
	centered := mat.NewDense(nClasses, d, nil)
	for k, m := range l.Means {
		for j := 0; j < d; j++ {
			centered.Set(k, j, m[j]-l.Xbar[j])
		}
	}
	var proj mat.Dense
	proj.Mul(centered, l.Scalings)
	l.Coef = mat.NewDense(nClasses, d, nil)
	l.Coef.Mul(&proj, l.Scalings.T())

	l.Intercept = make([]float64, nClasses)
	for k := 0; k < nClasses; k++ {
		row := proj.RawRowView(k)
		l.Intercept[k] = -0.5*floats.Dot(row, row) + math.Log(l.ClassPriors[k])
		l.Intercept[k] -= floats.Dot(l.Xbar, l.Coef.RawRowView(k))
	}
	return nil
}

// solveEigen solves the generalized problem Sb v = lambda Sw v by whitening
// with the Cholesky factor of Sw: with Sw = L L^T the symmetric matrix
// L^-1 Sb L^-T has the same eigenvalues and v = L^-T w.
func (l *LinearDiscriminantAnalysis) solveEigen(X [][]float64, idx []int) error {
	d := len(X[0])
	nClasses := len(l.Classes)

	Sw := mat.NewSymDense(d, nil)
	for k := 0; k < nClasses; k++ {
		var rows [][]float64
		for i, row := range X {
			if idx[i] == k {
				rows = append(rows, row)
			}
		}
		cov := empiricalCovariance(rows, l.Means[k])
		Sw.AddSym(Sw, scaledSym(cov, l.ClassPriors[k]))
	}
	St := empiricalCovariance(X, core.ColumnMeans(X))
	Sb := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			Sb.SetSym(i, j, St.At(i, j)-Sw.At(i, j))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(Sw); !ok {
		return errors.Wrap(ErrFactorization, "lda: within-class scatter is not positive definite")
	}
	var L, Linv mat.TriDense
	chol.LTo(&L)
	if err := Linv.InverseTri(&L); err != nil {
		return errors.Mark(errors.Wrap(err, "lda: invert cholesky factor"), ErrFactorization)
	}

	var tmp, whitened mat.Dense
	tmp.Mul(&Linv, Sb)
	whitened.Mul(&tmp, Linv.T())
	vals, w, err := eigenDesc(symmetrize(&whitened))
	if err != nil {
		return errors.Wrap(err, "lda")
	}

	l.Scalings = mat.NewDense(d, d, nil)
	l.Scalings.Mul(Linv.T(), w)

	total := floats.Sum(vals)
	l.ExplainedVarianceRatio = make([]float64, l.maxComponents)
	for i := range l.ExplainedVarianceRatio {
		l.ExplainedVarianceRatio[i] = vals[i] / total
	}

	means := mat.NewDense(nClasses, d, nil)
	for k, m := range l.Means {
		means.SetRow(k, m)
	}
	var proj mat.Dense
	proj.Mul(means, l.Scalings)
	l.Coef = mat.NewDense(nClasses, d, nil)
	l.Coef.Mul(&proj, l.Scalings.T())

	l.Intercept = make([]float64, nClasses)
	for k := 0; k < nClasses; k++ {
		l.Intercept[k] = -0.5*floats.Dot(l.Means[k], l.Coef.RawRowView(k)) + math.Log(l.ClassPriors[k])
	}
	return nil
}

// empiricalCovariance is the maximum-likelihood covariance (divides by n).
func empiricalCovariance(X [][]float64, mean []float64) *mat.SymDense {
	d := len(mean)
	cov := mat.NewSymDense(d, nil)
	diff := make([]float64, d)
	for _, row := range X {
		floats.SubTo(diff, row, mean)
		cov.SymRankOne(cov, 1, mat.NewVecDense(d, diff))
	}
	cov.ScaleSym(1/float64(len(X)), cov)
	return cov
}

func scaledSym(s *mat.SymDense, f float64) *mat.SymDense {
	var out mat.SymDense
	out.ScaleSym(f, s)
	return &out
}

// Transform projects X onto the leading discriminant directions.
func (l *LinearDiscriminantAnalysis) Transform(X [][]float64) ([][]float64, error) {
	if l.Scalings == nil {
		return nil, ErrNotFitted
	}
	_, d, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	if d != l.nFeatures {
		return nil, errors.Wrapf(ErrFeatureMismatch, "lda: got %d features, fitted on %d", d, l.nFeatures)
	}

	in := X
	if l.Solver != SolverEigen {
		in = core.Center(X, l.Xbar)
	}
	dense, err := core.Dense(in)
	if err != nil {
		return nil, err
	}
	_, rank := l.Scalings.Dims()
	k := min(l.maxComponents, rank)
	var out mat.Dense
	out.Mul(dense, firstColumns(l.Scalings, k))
	return core.Rows(&out), nil
}

// FitTransform fits on X, y and returns the projection of X.
func (l *LinearDiscriminantAnalysis) FitTransform(X [][]float64, y []int) ([][]float64, error) {
	if err := l.Fit(X, y); err != nil {
		return nil, err
	}
	return l.Transform(X)
}

// DecisionFunction returns one linear score per class for every sample.
func (l *LinearDiscriminantAnalysis) DecisionFunction(X [][]float64) ([][]float64, error) {
	if l.Coef == nil {
		return nil, ErrNotFitted
	}
	_, d, err := core.Shape(X)
	if err != nil {
		return nil, err
	}
	if d != l.nFeatures {
		return nil, errors.Wrapf(ErrFeatureMismatch, "lda: got %d features, fitted on %d", d, l.nFeatures)
	}
	nClasses := len(l.Classes)
	scores := make([][]float64, len(X))
	core.ParallelRows(len(X), func(start, end int) {
		for i := start; i < end; i++ {
			s := make([]float64, nClasses)
			for k := 0; k < nClasses; k++ {
				s[k] = floats.Dot(X[i], l.Coef.RawRowView(k)) + l.Intercept[k]
			}
			scores[i] = s
		}
	})
	return scores, nil
}

// Predict returns the class with the highest score for every sample.
func (l *LinearDiscriminantAnalysis) Predict(X [][]float64) ([]int, error) {
	scores, err := l.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = l.Classes[floats.MaxIdx(s)]
	}
	return out, nil
}

// Score returns the mean accuracy of Predict on X against y.
func (l *LinearDiscriminantAnalysis) Score(X [][]float64, y []int) (float64, error) {
	if len(X) != len(y) {
		return 0, errors.Wrapf(ErrLabelMismatch, "lda: %d labels for %d samples", len(y), len(X))
	}
	pred, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	return stats.Accuracy(y, pred)
}
