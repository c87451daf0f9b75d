package risk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
)

// LabelColumn is the historical-data column holding the observed outcome:
// 1 for a stope that failed, 0 otherwise.
const LabelColumn = "failure"

// Calculation feature names, in the order the planner supplies them.
const (
	FeatureOreThickness    = "ore_thickness"
	FeatureDipAngle        = "dip_angle"
	FeatureRQD             = "rqd"
	FeatureMiningDepth     = "mining_depth"
	FeatureSafetyFactor    = "safety_factor"
	FeatureHydraulicRadius = "hydraulic_radius"
	FeatureStabilityNumber = "stability_number"
)

// Dataset is a table of numeric features with a binary label per row.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Y) }

// LoadCSV reads a dataset from a CSV file.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening training data: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses a header row followed by numeric rows. The failure column
// is the label; every other column is a feature.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	label := -1
	ds := &Dataset{}
	cols := make([]int, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == LabelColumn {
			label = i
			continue
		}
		ds.Features = append(ds.Features, name)
		cols = append(cols, i)
	}
	if label < 0 {
		return nil, fmt.Errorf("missing %q column", LabelColumn)
	}
	if len(ds.Features) == 0 {
		return nil, errors.New("no feature columns")
	}

	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		y, err := parseLabel(rec[label])
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", row, LabelColumn, err)
		}
		x := make([]float64, len(cols))
		for j, c := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d, column %q: invalid number %q", row, ds.Features[j], rec[c])
			}
			x[j] = v
		}
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, y)
	}

	if ds.Len() == 0 {
		return nil, errors.New("no data rows")
	}
	return ds, nil
}

func parseLabel(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	switch {
	case err != nil:
		return 0, fmt.Errorf("invalid label %q", s)
	case v == 0:
		return 0, nil
	case v == 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("label must be 0 or 1, got %q", s)
	}
}

// Split shuffles the rows deterministically and holds out testFraction of
// them (rounded up) as a test set. The training set always keeps a row.
func Split(ds *Dataset, testFraction float64, seed uint64) (train, test *Dataset) {
	n := ds.Len()
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	nTest := int(math.Ceil(testFraction * float64(n)))
	nTest = max(0, min(nTest, n-1))

	test = ds.subset(perm[:nTest])
	train = ds.subset(perm[nTest:])
	return train, test
}

func (d *Dataset) subset(rows []int) *Dataset {
	out := &Dataset{
		Features: d.Features,
		X:        make([][]float64, len(rows)),
		Y:        make([]int, len(rows)),
	}
	for i, r := range rows {
		out.X[i] = d.X[r]
		out.Y[i] = d.Y[r]
	}
	return out
}

// ColumnSummary holds descriptive statistics for one column.
type ColumnSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Describe summarises every feature column and the label. Std is the
// sample standard deviation and is zero for a single row.
func Describe(ds *Dataset) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(ds.Features)+1)
	for j, name := range ds.Features {
		out = append(out, summarise(name, ds.Len(), func(i int) float64 { return ds.X[i][j] }))
	}
	out = append(out, summarise(LabelColumn, ds.Len(), func(i int) float64 { return float64(ds.Y[i]) }))
	return out
}

func summarise(name string, n int, at func(int) float64) ColumnSummary {
	s := ColumnSummary{Name: name, Count: n}
	if n == 0 {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := at(i)
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(n)
	if n > 1 {
		ss := 0.0
		for i := 0; i < n; i++ {
			d := at(i) - s.Mean
			ss += d * d
		}
		s.Std = math.Sqrt(ss / float64(n-1))
	}
	return s
}
