package datasets

import (
	"bytes"
	_ "embed"

	"github.com/cockroachdb/errors"

	"dimred/pkg/data"
)

//go:embed iris.csv
var irisCSV []byte

// LoadIris returns the 150 x 4 iris measurements, 50 samples per species.
func LoadIris() (*Dataset, error) {
	t, err := data.ReadCSV(bytes.NewReader(irisCSV), data.ReadOptions{LabelCol: 4, Header: true})
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded iris data")
	}
	return &Dataset{
		Name:         "iris",
		X:            t.X,
		Y:            t.Y,
		FeatureNames: t.Header,
		TargetNames:  []string{"setosa", "versicolor", "virginica"},
	}, nil
}
