package risk

import (
	"errors"
	"fmt"
)

var (
	// ErrNoModel is returned when no trained model is available.
	ErrNoModel = errors.New("no trained model")
	// ErrMissingFeature is returned when the model needs a feature that the
	// caller cannot supply.
	ErrMissingFeature = errors.New("missing model feature")
)

// ClassMetrics holds per-class classification quality.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Metrics is a classification report for the two outcome classes.
// Classes[0] is "no failure", Classes[1] is "failure".
type Metrics struct {
	Samples  int             `json:"samples"`
	Accuracy float64         `json:"accuracy"`
	Classes  [2]ClassMetrics `json:"classes"`
}

// Evaluate scores the forest on ds. Columns are matched by name so ds may
// order its features differently from the training data.
func Evaluate(f *Forest, ds *Dataset) (Metrics, error) {
	var m Metrics
	if ds == nil || ds.Len() == 0 {
		return m, errors.New("evaluating on an empty dataset")
	}
	cols, err := columnOrder(f.Features, ds.Features)
	if err != nil {
		return m, err
	}

	// confusion[actual][predicted]
	var confusion [2][2]int
	x := make([]float64, len(cols))
	for i, row := range ds.X {
		for j, c := range cols {
			x[j] = row[c]
		}
		pred := 0
		if f.Predict(x) {
			pred = 1
		}
		confusion[ds.Y[i]][pred]++
	}

	m.Samples = ds.Len()
	m.Accuracy = float64(confusion[0][0]+confusion[1][1]) / float64(m.Samples)
	for c := 0; c < 2; c++ {
		tp := confusion[c][c]
		predicted := confusion[0][c] + confusion[1][c]
		actual := confusion[c][0] + confusion[c][1]

		cm := ClassMetrics{Support: actual}
		if predicted > 0 {
			cm.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			cm.Recall = float64(tp) / float64(actual)
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		m.Classes[c] = cm
	}
	return m, nil
}

// columnOrder maps each model feature to its index in have.
func columnOrder(want, have []string) ([]int, error) {
	index := make(map[string]int, len(have))
	for i, name := range have {
		index[name] = i
	}
	cols := make([]int, len(want))
	for i, name := range want {
		c, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		cols[i] = c
	}
	return cols, nil
}
