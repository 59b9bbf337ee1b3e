package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"dimred/pkg/config"
	"dimred/pkg/data"
	"dimred/pkg/decomposition"
	"dimred/pkg/kernel"
	"dimred/pkg/pipeline"
	"dimred/pkg/report"
	"dimred/pkg/stats"
)

func kpcaCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "kpca",
		Usage: "Reduce with kernel PCA",
		Flags: commonFlags(
			&cli.StringFlag{
				Name:    "kernel",
				Value:   string(kernel.RBF),
				Usage:   "linear, rbf, poly, sigmoid or cosine",
				Sources: cli.EnvVars("DIMRED_KERNEL"),
			},
			&cli.FloatFlag{
				Name:    "gamma",
				Usage:   "kernel coefficient, 0 for 1/n_features",
				Sources: cli.EnvVars("DIMRED_GAMMA"),
			},
			&cli.FloatFlag{Name: "degree", Value: 3, Usage: "poly kernel degree"},
			&cli.FloatFlag{Name: "coef0", Value: 1, Usage: "poly and sigmoid kernel offset"},
			&cli.IntFlag{
				Name:    "components",
				Aliases: []string{"n"},
				Value:   1,
				Usage:   "number of components, 0 for every non-zero one",
			},
			&cli.BoolFlag{Name: "remove-zero-eig", Usage: "drop components with zero eigenvalue"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind, err := kernel.Parse(cmd.String("kernel"))
			if err != nil {
				return err
			}
			kpca := decomposition.NewKernelPCA(
				decomposition.WithKernel(kind),
				decomposition.WithGamma(cmd.Float("gamma")),
				decomposition.WithDegree(cmd.Float("degree")),
				decomposition.WithCoef0(cmd.Float("coef0")),
				decomposition.WithComponents(cmd.Int("components")),
				decomposition.WithRemoveZeroEig(cmd.Bool("remove-zero-eig")),
			)
			params := fmt.Sprintf("kernel=%s gamma=%g components=%d", kind, cmd.Float("gamma"), cmd.Int("components"))
			return reduce(cmd, cfg, reduction{name: "kernel pca", params: params, reducer: pipeline.Unsupervised(kpca)})
		},
	}
}

func ldaCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "lda",
		Usage: "Reduce with linear discriminant analysis (needs labels)",
		Flags: commonFlags(
			&cli.IntFlag{
				Name:    "components",
				Aliases: []string{"n"},
				Value:   0,
				Usage:   "number of discriminants, 0 for min(n_classes - 1, n_features)",
			},
			&cli.StringFlag{
				Name:    "solver",
				Value:   string(decomposition.SolverSVD),
				Usage:   "svd or eigen",
				Sources: cli.EnvVars("DIMRED_SOLVER"),
			},
			&cli.FloatFlag{Name: "tol", Value: 1e-4, Usage: "singular value threshold of the svd solver"},
			&cli.FloatFlag{
				Name:  "test-size",
				Usage: "hold out this fraction of rows and report classification accuracy on them",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lda := decomposition.NewLDA(
				decomposition.WithLDAComponents(cmd.Int("components")),
				decomposition.WithSolver(decomposition.Solver(cmd.String("solver"))),
				decomposition.WithTol(cmd.Float("tol")),
			)
			params := fmt.Sprintf("solver=%s components=%d", cmd.String("solver"), cmd.Int("components"))
			return reduce(cmd, cfg, reduction{
				name:       "lda",
				params:     params,
				reducer:    lda,
				ratio:      func() []float64 { return lda.ExplainedVarianceRatio },
				classifier: lda,
			})
		},
	}
}

func pcaCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "pca",
		Usage: "Reduce with principal component analysis",
		Flags: commonFlags(
			&cli.IntFlag{
				Name:    "components",
				Aliases: []string{"n"},
				Value:   2,
				Usage:   "number of principal components",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pca := decomposition.NewPCA(cmd.Int("components"))
			params := fmt.Sprintf("components=%d", cmd.Int("components"))
			return reduce(cmd, cfg, reduction{
				name:    "pca",
				params:  params,
				reducer: pipeline.Unsupervised(pca),
				ratio:   func() []float64 { return pca.ExplainedVarianceRatio },
			})
		},
	}
}

// reduction is one reducer run as configured by a subcommand.
type reduction struct {
	name    string
	params  string
	reducer pipeline.Step
	ratio   func() []float64 // nil when the reducer tracks no explained variance
	// classifier is set for reducers that can also predict labels; they
	// need labelled data and support --test-size.
	classifier *decomposition.LinearDiscriminantAnalysis
}

// reduce loads the dataset, runs the preprocessing steps and the reducer,
// and reports the result.
func reduce(cmd *cli.Command, cfg *config.Config, r reduction) error {
	ds, err := loadDataset(cmd, cfg)
	if err != nil {
		return err
	}
	if r.classifier != nil && ds.Y == nil {
		return errors.Newf("%s needs class labels, pass --label-col", r.name)
	}
	prep, err := prepSteps(cmd)
	if err != nil {
		return err
	}

	X, y := ds.X, ds.Y
	var split *data.Split
	if r.classifier != nil && cmd.Float("test-size") > 0 {
		split, err = data.TrainTestSplit(ds.X, ds.Y, cmd.Float("test-size"), seed(cmd, cfg))
		if err != nil {
			return err
		}
		X, y = split.XTrain, split.YTrain
	}

	start := time.Now()
	Z, err := pipeline.NewPipeline(append(prep, r.reducer)...).FitTransform(X, y)
	if err != nil {
		return errors.Wrapf(err, "%s on %s", r.name, ds.Name)
	}
	log.Info().Str("dataset", ds.Name).Str("reducer", r.name).Int("samples", len(X)).
		Dur("elapsed", time.Since(start)).Msg("Reduction finished")

	w := output(cmd)
	quiet := cmd.Bool("quiet")
	if err := report.FeatureCounts(w, ds.Features(), len(Z[0])); err != nil {
		return err
	}
	var ratio []float64
	if r.ratio != nil {
		ratio = r.ratio()
		if err := report.ExplainedVarianceRatio(w, ratio); err != nil {
			return err
		}
	}
	if !quiet {
		report.Summary{
			Dataset:  ds.Name,
			Samples:  len(X),
			Reducer:  r.name,
			Params:   r.params,
			Original: ds.Features(),
			Reduced:  len(Z[0]),
			Ratio:    ratio,
		}.Render(w)
	}

	if split != nil {
		if err := evaluate(w, r.classifier, prep, split, quiet); err != nil {
			return err
		}
	}

	if path := plotPath(cmd, cfg); path != "" {
		if err := report.Scatter(path, Z, y, fmt.Sprintf("%s: %s", r.name, ds.Name)); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Saved plot")
	}
	return nil
}

// evaluate scores the fitted classifier on the held-out rows. The
// preprocessing steps are already fitted on the training rows.
func evaluate(w io.Writer, clf *decomposition.LinearDiscriminantAnalysis, prep []pipeline.Step, split *data.Split, brief bool) error {
	Xt, err := pipeline.NewPipeline(prep...).Transform(split.XTest)
	if err != nil {
		return errors.Wrap(err, "preprocess test rows")
	}
	pred, err := clf.Predict(Xt)
	if err != nil {
		return err
	}
	acc, err := stats.Accuracy(split.YTest, pred)
	if err != nil {
		return err
	}
	cm, err := stats.ConfusionMatrix(split.YTest, pred)
	if err != nil {
		return err
	}
	log.Debug().Int("test", len(Xt)).Float64("accuracy", acc).Msg("Held-out evaluation")
	return report.Evaluation(w, acc, cm, brief)
}
