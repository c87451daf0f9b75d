// Package planner runs a design submission through validation, method
// selection, dimensioning, stability, cost and the optional failure-risk
// classifier.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChicagoDave/stopeplanner/pkg/cost"
	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/risk"
	"github.com/ChicagoDave/stopeplanner/pkg/stability"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

// ErrInvalidInput is returned when the submission fails validation. The
// accompanying report names every offending field.
var ErrInvalidInput = errors.New("invalid design input")

// FailurePredictor estimates the probability that a stope fails.
type FailurePredictor interface {
	Probability(ctx context.Context, features map[string]float64) (float64, error)
}

// Design is a complete calculation result.
type Design struct {
	ID              uuid.UUID             `json:"id"`
	CreatedAt       time.Time             `json:"created_at"`
	Input           design.Input          `json:"input"`
	StopeType       stope.Type            `json:"stope_type"`
	Characteristics stope.Characteristics `json:"characteristics"`
	Dimensions      stope.Dimensions      `json:"dimensions"`
	Stability       *stability.Result     `json:"stability"`
	Cost            *cost.Report          `json:"cost"`
	Warnings        []string              `json:"warnings,omitempty"`
}

// Engine performs design calculations.
type Engine struct {
	predictor FailurePredictor
	logger    *zap.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// Option configures an Engine.
type Option func(*Engine)

// WithPredictor enables failure-risk prediction.
func WithPredictor(p FailurePredictor) Option {
	return func(e *Engine) { e.predictor = p }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. Without WithPredictor no risk is computed.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("planner")
	return e
}

// Calculate validates the form and, when valid, computes the full design.
// The returned report merges validation, method-envelope and stability
// findings. A predictor failure never fails the calculation.
func (e *Engine) Calculate(ctx context.Context, form *design.Form) (*Design, *validation.Report, error) {
	in, report := validation.ValidateForm(form)
	if !report.Valid {
		e.logger.Debug("design rejected", zap.Int("errors", len(report.Errors)))
		return nil, report, ErrInvalidInput
	}

	dims := stope.Calculate(in)
	report.Merge(stope.Check(in, dims))

	stab, stabReport := stability.Assess(in, dims)
	report.Merge(stabReport)

	d := &Design{
		ID:         e.newID(),
		CreatedAt:  e.now().UTC(),
		Input:      *in,
		StopeType:  dims.Type,
		Dimensions: dims,
		Stability:  stab,
		Cost:       cost.Estimate(in, dims),
	}
	d.Characteristics, _ = stope.CharacteristicsOf(dims.Type)

	if e.predictor != nil {
		e.predictRisk(ctx, d, report)
	}

	for _, w := range report.Warnings {
		d.Warnings = append(d.Warnings, w.Message)
	}

	e.logger.Debug("design calculated",
		zap.String("id", d.ID.String()),
		zap.String("stope_type", string(d.StopeType)),
		zap.Float64("safety_factor", stab.SafetyFactor),
		zap.Float64("total_cost", d.Cost.Breakdown.Total),
	)
	return d, report, nil
}

func (e *Engine) predictRisk(ctx context.Context, d *Design, report *validation.Report) {
	p, err := e.predictor.Probability(ctx, Features(&d.Input, d.Dimensions, d.Stability))
	if err != nil {
		e.logger.Warn("failure prediction unavailable", zap.Error(err))
		report.AddWarning(validation.Result{
			Level:   validation.LevelAnalytical,
			Message: fmt.Sprintf("failure risk unavailable: %v", err),
		})
		return
	}
	d.Stability.FailureProbability = &p
}

// CalculateFile loads a design file and calculates it.
func (e *Engine) CalculateFile(ctx context.Context, path string) (*Design, *validation.Report, error) {
	form, err := design.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return e.Calculate(ctx, form)
}

// Features returns the classifier inputs for a calculated design.
func Features(in *design.Input, d stope.Dimensions, s *stability.Result) map[string]float64 {
	return map[string]float64{
		risk.FeatureOreThickness:    in.OreThickness,
		risk.FeatureDipAngle:        in.DipAngle,
		risk.FeatureRQD:             in.RQD,
		risk.FeatureMiningDepth:     in.MiningDepth,
		risk.FeatureSafetyFactor:    s.SafetyFactor,
		risk.FeatureHydraulicRadius: d.HydraulicRadius,
		risk.FeatureStabilityNumber: d.StabilityNumber,
	}
}
