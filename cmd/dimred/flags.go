package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"dimred/pkg/config"
	"dimred/pkg/data"
	"dimred/pkg/datasets"
	"dimred/pkg/pipeline"
	"dimred/pkg/stats"
)

// commonFlags builds the dataset, scaling and output flags every reducer
// shares. Flags hold parsed state, so each command gets fresh instances.
func commonFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "dataset",
			Aliases: []string{"d"},
			Value:   "iris",
			Usage:   "built-in dataset: iris, circles, moons, blobs",
			Sources: cli.EnvVars("DIMRED_DATASET"),
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "numeric CSV file to reduce instead of a built-in dataset",
			Sources: cli.EnvVars("DIMRED_INPUT"),
		},
		&cli.IntFlag{
			Name:  "label-col",
			Value: -1,
			Usage: "index of the label column in --input, -1 for none",
		},
		&cli.BoolFlag{
			Name:  "header",
			Usage: "--input starts with a header row",
		},
		&cli.IntFlag{
			Name:  "samples",
			Value: 1000,
			Usage: "number of samples for generated datasets",
		},
		&cli.FloatFlag{
			Name:  "noise",
			Value: 0.1,
			Usage: "standard deviation of noise for generated datasets",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed for generated datasets (default DIMRED_SEED or 1)",
		},
		&cli.StringFlag{
			Name:    "scale",
			Value:   "none",
			Usage:   "scale features before reducing: none, standard, minmax",
			Sources: cli.EnvVars("DIMRED_SCALE"),
		},
		&cli.StringFlag{
			Name:  "impute",
			Value: "none",
			Usage: "fill missing --input values with the column statistic: none, mean, median",
		},
		&cli.StringFlag{
			Name:  "plot",
			Usage: "save a scatter plot of the reduced data to this file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "print only the feature counts, no summary table",
		},
	}, extra...)
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// loadDataset reads --input when given, otherwise the named built-in dataset.
func loadDataset(cmd *cli.Command, cfg *config.Config) (*datasets.Dataset, error) {
	if path := cmd.String("input"); path != "" {
		t, err := data.LoadCSV(path, data.ReadOptions{
			LabelCol:     cmd.Int("label-col"),
			Header:       cmd.Bool("header"),
			AllowMissing: imputing(cmd),
		})
		if err != nil {
			return nil, err
		}
		if t.Skipped > 0 {
			log.Warn().Int("skipped", t.Skipped).Str("path", path).Msg("Dropped malformed rows")
		}
		return &datasets.Dataset{
			Name:         filepath.Base(path),
			X:            t.X,
			Y:            t.Y,
			FeatureNames: t.Header,
		}, nil
	}

	return datasets.Load(cmd.String("dataset"), cmd.Int("samples"), cmd.Float("noise"), seed(cmd, cfg))
}

// seed prefers --seed over the configured default.
func seed(cmd *cli.Command, cfg *config.Config) int64 {
	if cmd.IsSet("seed") {
		return cmd.Int64("seed")
	}
	return cfg.Seed
}

func imputing(cmd *cli.Command) bool {
	s := cmd.String("impute")
	return s != "" && s != "none"
}

// prepSteps returns the imputation and scaling steps that run before the reducer.
func prepSteps(cmd *cli.Command) ([]pipeline.Step, error) {
	var steps []pipeline.Step
	if imputing(cmd) {
		switch s := stats.Strategy(cmd.String("impute")); s {
		case stats.Mean, stats.Median:
			steps = append(steps, pipeline.Unsupervised(stats.NewImputer(s)))
		default:
			return nil, errors.Wrapf(stats.ErrUnknownStrategy, "%q", s)
		}
	}
	scaler, err := scalerStep(cmd)
	if err != nil {
		return nil, err
	}
	if scaler != nil {
		steps = append(steps, scaler)
	}
	return steps, nil
}

// scalerStep returns the scaling step selected by --scale, nil for none.
func scalerStep(cmd *cli.Command) (pipeline.Step, error) {
	switch name := cmd.String("scale"); name {
	case "", "none":
		return nil, nil
	case "standard":
		return pipeline.Unsupervised(stats.NewStandardScaler()), nil
	case "minmax":
		return pipeline.Unsupervised(stats.NewMinMaxScaler()), nil
	default:
		return nil, errors.Newf("unknown scaler %q", name)
	}
}

// plotPath resolves a relative --plot path against the output directory.
func plotPath(cmd *cli.Command, cfg *config.Config) string {
	path := cmd.String("plot")
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}
