package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"dimred/pkg/datasets"
	"dimred/pkg/stats"
)

func datasetsCmd() *cli.Command {
	return &cli.Command{
		Name:      "datasets",
		Usage:     "List the built-in datasets, or describe one",
		ArgsUsage: "[name]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return listDatasets(cmd)
			}
			return describeDataset(cmd, name)
		},
	}
}

func listDatasets(cmd *cli.Command) error {
	t := table.NewWriter()
	t.SetOutputMirror(output(cmd))
	t.AppendHeader(table.Row{"NAME", "SAMPLES", "FEATURES", "CLASSES"})
	for _, name := range datasets.Names() {
		ds, err := datasets.Load(name, 1000, 0.1, 1)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{name, ds.Samples(), ds.Features(), ds.Classes()})
	}
	t.Render()
	return nil
}

func describeDataset(cmd *cli.Command, name string) error {
	ds, err := datasets.Load(name, 1000, 0.1, 1)
	if err != nil {
		return err
	}
	summary, err := stats.Describe(ds.X)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(output(cmd))
	t.SetTitle(fmt.Sprintf("%s: %d samples, %d classes", ds.Name, ds.Samples(), ds.Classes()))
	t.AppendHeader(table.Row{"FEATURE", "MEAN", "STD", "MIN", "MAX"})
	for j, s := range summary {
		feature := fmt.Sprintf("x%d", j)
		if j < len(ds.FeatureNames) {
			feature = ds.FeatureNames[j]
		}
		t.AppendRow(table.Row{
			feature,
			fmt.Sprintf("%0.4f", s.Mean),
			fmt.Sprintf("%0.4f", s.Std),
			fmt.Sprintf("%0.4f", s.Min),
			fmt.Sprintf("%0.4f", s.Max),
		})
	}
	t.Render()
	return nil
}
