package risk

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Condition compares one column against a constant, e.g. "rqd<50".
type Condition struct {
	Column string
	Op     string
	Value  float64
}

// operators are tried longest first so "<=" is not read as "<".
var operators = []string{"<=", ">=", "!=", "==", "<", ">", "="}

// ParseCondition parses "column op value" where op is one of
// <, <=, >, >=, =, == or !=.
func ParseCondition(s string) (Condition, error) {
	for _, op := range operators {
		i := strings.Index(s, op)
		if i < 0 {
			continue
		}
		col := strings.TrimSpace(s[:i])
		raw := strings.TrimSpace(s[i+len(op):])
		if col == "" {
			return Condition{}, fmt.Errorf("condition %q: missing column", s)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Condition{}, fmt.Errorf("condition %q: invalid number %q", s, raw)
		}
		if op == "=" {
			op = "=="
		}
		return Condition{Column: col, Op: op, Value: v}, nil
	}
	return Condition{}, fmt.Errorf("condition %q: no comparison operator", s)
}

func (c Condition) String() string {
	return c.Column + c.Op + strconv.FormatFloat(c.Value, 'g', -1, 64)
}

func (c Condition) match(v float64) bool {
	switch c.Op {
	case "<":
		return v < c.Value
	case "<=":
		return v <= c.Value
	case ">":
		return v > c.Value
	case ">=":
		return v >= c.Value
	case "==":
		return v == c.Value
	case "!=":
		return v != c.Value
	}
	return false
}

// Filter returns the rows satisfying every condition. Conditions may name
// any feature column or the failure label; an unknown column is an error.
func Filter(ds *Dataset, conds ...Condition) (*Dataset, error) {
	cols := make([]int, len(conds))
	for i, c := range conds {
		switch j := slices.Index(ds.Features, c.Column); {
		case j >= 0:
			cols[i] = j
		case c.Column == LabelColumn:
			cols[i] = -1
		default:
			return nil, fmt.Errorf("%w: %q", ErrMissingFeature, c.Column)
		}
	}

	var rows []int
	for r := range ds.Len() {
		keep := true
		for i, c := range conds {
			v := float64(ds.Y[r])
			if cols[i] >= 0 {
				v = ds.X[r][cols[i]]
			}
			if !c.match(v) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, r)
		}
	}
	return ds.subset(rows), nil
}

// WriteCSV writes the dataset with its feature columns followed by the
// failure label, in the layout ReadCSV accepts.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(slices.Clone(ds.Features), LabelColumn)); err != nil {
		return err
	}
	rec := make([]string, len(ds.Features)+1)
	for r := range ds.Len() {
		for j, v := range ds.X[r] {
			rec[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		rec[len(rec)-1] = strconv.Itoa(ds.Y[r])
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the dataset to path, creating its directory.
func SaveCSV(path string, ds *Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
