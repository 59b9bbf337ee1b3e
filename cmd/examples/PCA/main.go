package main

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"dimred/pkg/config"
	"dimred/pkg/datasets"
	"dimred/pkg/decomposition"
	"dimred/pkg/report"
)

// run is the unsupervised counterpart of the LDA walkthrough: the same
// iris data reduced to the two directions of largest variance.
func run(w io.Writer) error {
	iris, err := datasets.LoadIris()
	if err != nil {
		return err
	}

	pca := decomposition.NewPCA(2)
	Xpca, err := pca.FitTransform(iris.X)
	if err != nil {
		return err
	}

	if err := report.FeatureCounts(w, iris.Features(), len(Xpca[0])); err != nil {
		return err
	}
	return report.ExplainedVarianceRatio(w, pca.ExplainedVarianceRatio)
}

func main() {
	if _, err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("PCA walkthrough failed")
	}
}
