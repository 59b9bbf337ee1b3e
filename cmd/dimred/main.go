package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"dimred/pkg/config"
)

func newApp(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "dimred",
		Usage: "Reduce the number of features of a dataset",
		Commands: []*cli.Command{
			kpcaCmd(cfg),
			ldaCmd(cfg),
			pcaCmd(cfg),
			datasetsCmd(),
		},
	}
}

func main() {
	cfg, err := config.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if err := newApp(cfg).Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("Unexpected error")
		os.Exit(1)
	}
}
