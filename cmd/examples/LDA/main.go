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

// run reduces the four iris measurements to the single linear
// discriminant that best separates the three species.
func run(w io.Writer) error {
	// Load the Iris flower dataset
	iris, err := datasets.LoadIris()
	if err != nil {
		return err
	}

	// Create an LDA that will reduce the data down to 1 feature
	lda := decomposition.NewLDA(decomposition.WithLDAComponents(1))

	// Run an LDA and use it to transform the features
	if err := lda.Fit(iris.X, iris.Y); err != nil {
		return err
	}
	Xlda, err := lda.Transform(iris.X)
	if err != nil {
		return err
	}

	if err := report.FeatureCounts(w, iris.Features(), len(Xlda[0])); err != nil {
		return err
	}
	return report.ExplainedVarianceRatio(w, lda.ExplainedVarianceRatio)
}

func main() {
	if _, err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("LDA walkthrough failed")
	}
}
