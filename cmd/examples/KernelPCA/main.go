package main

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"dimred/pkg/config"
	"dimred/pkg/datasets"
	"dimred/pkg/decomposition"
	"dimred/pkg/kernel"
	"dimred/pkg/report"
)

// run reduces two concentric circles to a single feature with an RBF
// kernel PCA. No linear projection can separate the circles; the kernel
// maps them to where one component does.
func run(w io.Writer) error {
	// Create linearly inseparable data
	ds, err := datasets.MakeCircles(
		datasets.WithSamples(1000),
		datasets.WithSeed(1),
		datasets.WithNoise(0.1),
		datasets.WithFactor(0.1),
	)
	if err != nil {
		return err
	}

	// Apply kernel PCA with radial basis function (RBF) kernel
	kpca := decomposition.NewKernelPCA(
		decomposition.WithKernel(kernel.RBF),
		decomposition.WithGamma(15),
		decomposition.WithComponents(1),
	)
	Xkpca, err := kpca.FitTransform(ds.X)
	if err != nil {
		return err
	}

	return report.FeatureCounts(w, ds.Features(), len(Xkpca[0]))
}

func main() {
	if _, err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("kernel PCA walkthrough failed")
	}
}
