// Package report prints and plots the outcome of a reduction.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"dimred/pkg/stats"
)

// FeatureCounts prints the number of features before and after a reduction.
func FeatureCounts(w io.Writer, original, reduced int) error {
	if _, err := fmt.Fprintln(w, "Original number of features:", original); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "Reduced number of features:", reduced)
	return err
}

// ExplainedVarianceRatio prints the share of variance kept by each new feature.
func ExplainedVarianceRatio(w io.Writer, ratio []float64) error {
	_, err := fmt.Fprintln(w, "Explained variance ratio:", formatRatio(ratio))
	return err
}

func formatRatio(ratio []float64) string {
	parts := make([]string, len(ratio))
	for i, r := range ratio {
		parts[i] = fmt.Sprintf("%0.8f", r)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Summary is the one-table overview of a reduction run.
type Summary struct {
	Dataset  string
	Samples  int
	Reducer  string
	Params   string
	Original int
	Reduced  int
	Ratio    []float64 // nil when the reducer does not report one
}

// Render writes the summary as a table.
func (s Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Dimensionality Reduction")
	t.AppendRows([]table.Row{
		{"Dataset", s.Dataset},
		{"Samples", fmt.Sprintf("%d", s.Samples)},
		{"Reducer", s.Reducer},
	})
	if s.Params != "" {
		t.AppendRow(table.Row{"Parameters", s.Params})
	}
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Original features", fmt.Sprintf("%d", s.Original)},
		{"Reduced features", fmt.Sprintf("%d", s.Reduced)},
	})
	if s.Ratio != nil {
		t.AppendRow(table.Row{"Explained variance ratio", formatRatio(s.Ratio)})
	}
	t.Render()
}

// Evaluation prints held-out accuracy and, unless brief, the confusion matrix.
func Evaluation(w io.Writer, accuracy float64, cm *stats.Confusion, brief bool) error {
	if _, err := fmt.Fprintf(w, "Test accuracy: %0.4f\n", accuracy); err != nil {
		return err
	}
	if brief || cm == nil {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Confusion Matrix (rows: true, columns: predicted)")
	header := table.Row{""}
	for _, l := range cm.Labels {
		header = append(header, l)
	}
	t.AppendHeader(header)
	for i, l := range cm.Labels {
		row := table.Row{l}
		for _, c := range cm.Counts[i] {
			row = append(row, c)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}
