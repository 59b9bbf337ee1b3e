package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Table is a parsed numeric CSV: a feature matrix plus optional labels.
type Table struct {
	Header  []string // feature column names, empty when the file has no header
	X       [][]float64
	Y       []int // nil when no label column was requested
	Skipped int   // rows dropped because they were malformed
}

// ReadOptions controls how ReadCSV interprets a file.
type ReadOptions struct {
	LabelCol     int  // index of the label column, -1 for none
	Header       bool // first row holds column names
	AllowMissing bool // empty, NA and ? features become NaN instead of dropping the row
}

// ReadCSV parses every numeric row of r. Rows that cannot be parsed, or
// whose width differs from the expected feature count, are skipped and
// counted in Table.Skipped. The expected width comes from the header when
// there is one and is otherwise the most common row width.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	type parsed struct {
		line int
		s    Sample
	}
	var rows []parsed
	t := &Table{}
	width := -1
	first := true
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping record due to read error")
			t.Skipped++
			continue
		}
		if first && opts.Header {
			first = false
			for i, name := range rec {
				if i != opts.LabelCol {
					t.Header = append(t.Header, strings.TrimSpace(name))
				}
			}
			width = len(t.Header)
			continue
		}
		first = false

		s, ok := parseRecord(rec, opts.LabelCol, opts.AllowMissing)
		if !ok {
			log.Warn().Int("line", line).Msg("Skipping malformed record")
			t.Skipped++
			continue
		}
		rows = append(rows, parsed{line: line, s: s})
	}

	if width < 0 {
		counts := make(map[int]int)
		for _, p := range rows {
			w := len(p.s.X)
			counts[w]++
			if width < 0 || counts[w] > counts[width] {
				width = w
			}
		}
	}

	if opts.LabelCol >= 0 {
		t.Y = []int{}
	}
	for _, p := range rows {
		if len(p.s.X) != width {
			log.Warn().Int("line", p.line).Int("width", len(p.s.X)).Int("want", width).
				Msg("Skipping record with wrong number of fields")
			t.Skipped++
			continue
		}
		t.X = append(t.X, p.s.X)
		if opts.LabelCol >= 0 {
			t.Y = append(t.Y, int(math.Round(p.s.Y)))
		}
	}

	if len(t.X) == 0 {
		return nil, errors.Newf("no numeric rows found (%d skipped)", t.Skipped)
	}
	return t, nil
}

// LoadCSV opens path and parses it with ReadCSV.
func LoadCSV(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}

func parseRecord(rec []string, labelCol int, allowMissing bool) (Sample, bool) {
	if labelCol >= len(rec) {
		return Sample{}, false
	}
	x := make([]float64, 0, len(rec))
	var y float64
	for i, s := range rec {
		s = strings.TrimSpace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil && allowMissing && isMissing(s) {
			v, err = math.NaN(), nil
		}
		if err != nil {
			return Sample{}, false
		}
		if math.IsNaN(v) && (!allowMissing || i == labelCol) {
			return Sample{}, false
		}
		if i == labelCol {
			y = v
		} else {
			x = append(x, v)
		}
	}
	if len(x) == 0 {
		return Sample{}, false
	}
	return Sample{X: x, Y: y}, true
}

func isMissing(s string) bool {
	switch strings.ToUpper(s) {
	case "", "NA", "N/A", "?":
		return true
	}
	return false
}

// StreamCSV streams CSV rows as Samples through a channel. The labelCol is the index of label.
// Close the returned done chan to stop early.
func StreamCSV(path string, labelCol int, out chan<- Sample) (done chan struct{}, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true
	done = make(chan struct{})

	go func() {
		defer file.Close()
		defer close(out)
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				log.Warn().Err(err).Msg("Skipping record due to read error")
				continue
			}
			s, ok := parseRecord(rec, labelCol, false)
			if !ok {
				log.Warn().Str("path", path).Msg("Skipping malformed record")
				continue
			}
			select {
			case <-done:
				return
			case out <- s:
			}
		}
	}()
	return done, nil
}

// Collect drains in into a Table. Labels are kept when withLabels is set.
func Collect(in <-chan Sample, withLabels bool) *Table {
	t := &Table{}
	for s := range in {
		t.X = append(t.X, s.X)
		if withLabels {
			t.Y = append(t.Y, int(math.Round(s.Y)))
		}
	}
	return t
}
