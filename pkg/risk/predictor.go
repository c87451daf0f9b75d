package risk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TrainResult is the outcome of training from a CSV file.
type TrainResult struct {
	Forest  *Forest
	Metrics Metrics
	Train   int
	Test    int
}

// TrainFromCSV loads historical data, holds out p.TestFraction for
// evaluation and trains on the rest. With no held-out rows the metrics
// are computed on the training set.
func TrainFromCSV(ctx context.Context, dataPath string, p Params) (*TrainResult, error) {
	ds, err := LoadCSV(dataPath)
	if err != nil {
		return nil, err
	}

	train, test := Split(ds, p.TestFraction, p.Seed)
	forest, err := Train(ctx, train, p)
	if err != nil {
		return nil, err
	}

	eval := test
	if eval.Len() == 0 {
		eval = train
	}
	m, err := Evaluate(forest, eval)
	if err != nil {
		return nil, err
	}
	return &TrainResult{Forest: forest, Metrics: m, Train: train.Len(), Test: test.Len()}, nil
}

// Predictor serves failure probabilities from a cached model. When the
// model file is missing it retrains from the historical CSV; concurrent
// callers share a single training run.
type Predictor struct {
	modelPath string
	dataPath  string
	params    Params
	logger    *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	forest *Forest

	trainings atomic.Int32
}

// NewPredictor creates a predictor. dataPath may be empty, in which case a
// missing model is reported as ErrNoModel.
func NewPredictor(modelPath, dataPath string, p Params, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{
		modelPath: modelPath,
		dataPath:  dataPath,
		params:    p,
		logger:    logger.Named("risk"),
	}
}

// Model returns the loaded forest, loading or training it on first use.
func (p *Predictor) Model(ctx context.Context) (*Forest, error) {
	p.mu.RLock()
	f := p.forest
	p.mu.RUnlock()
	if f != nil {
		return f, nil
	}

	ch := p.group.DoChan("model", func() (any, error) {
		// Training outlives any single caller.
		return p.loadOrTrain(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Forest), nil
	}
}

func (p *Predictor) loadOrTrain(ctx context.Context) (*Forest, error) {
	p.mu.RLock()
	f := p.forest
	p.mu.RUnlock()
	if f != nil {
		return f, nil
	}

	f, err := Load(p.modelPath)
	switch {
	case err == nil:
		p.logger.Debug("loaded model", zap.String("path", p.modelPath), zap.Int("trees", len(f.Trees)))
	case errors.Is(err, ErrNoModel) && p.dataPath != "":
		f, err = p.retrain(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	p.mu.Lock()
	p.forest = f
	p.mu.Unlock()
	return f, nil
}

func (p *Predictor) retrain(ctx context.Context) (*Forest, error) {
	p.trainings.Add(1)
	p.logger.Info("model missing, retraining",
		zap.String("model", p.modelPath),
		zap.String("data", p.dataPath),
		zap.Int("trees", p.params.Trees),
	)

	res, err := TrainFromCSV(ctx, p.dataPath, p.params)
	if err != nil {
		return nil, fmt.Errorf("retraining model: %w", err)
	}
	p.logger.Info("model trained",
		zap.Int("train_rows", res.Train),
		zap.Int("test_rows", res.Test),
		zap.Float64("accuracy", res.Metrics.Accuracy),
	)

	if err := Save(p.modelPath, res.Forest); err != nil {
		// The in-memory model is still usable.
		p.logger.Warn("saving model", zap.Error(err))
	}
	return res.Forest, nil
}

// Probability returns the failure probability for a calculation. Features
// are looked up by name in the model's own order.
func (p *Predictor) Probability(ctx context.Context, features map[string]float64) (float64, error) {
	f, err := p.Model(ctx)
	if err != nil {
		return 0, err
	}

	x := make([]float64, len(f.Features))
	for i, name := range f.Features {
		v, ok := features[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		x[i] = v
	}
	return f.Probability(x), nil
}
