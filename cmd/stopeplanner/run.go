package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChicagoDave/stopeplanner/internal/watch"
	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/planner"
	"github.com/ChicagoDave/stopeplanner/pkg/risk"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

var errInvalidDesign = errors.New("design has validation errors")

// engine builds a planner, with a failure predictor when requested on the
// command line or in the environment.
func (a *app) engine(useRisk bool) *planner.Engine {
	opts := []planner.Option{planner.WithLogger(a.logger)}
	if useRisk || a.cfg.Risk {
		opts = append(opts, planner.WithPredictor(a.predictor()))
	}
	return planner.New(opts...)
}

func (a *app) predictor() *risk.Predictor {
	return risk.NewPredictor(a.cfg.ModelPath, a.cfg.TrainingData, a.cfg.Params, a.logger)
}

// calculate loads the project and runs the full pipeline. An invalid design
// prints its report and yields errInvalidDesign.
func (a *app) calculate(cmd *cobra.Command, projectPath string, useRisk bool) (*planner.Design, *validation.Report, error) {
	form, err := design.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading design: %w", err)
	}

	d, report, err := a.engine(useRisk).Calculate(cmd.Context(), form)
	if errors.Is(err, planner.ErrInvalidInput) {
		printValidationReport(cmd.OutOrStdout(), report)
		return nil, report, errInvalidDesign
	}
	if err != nil {
		return nil, nil, err
	}
	return d, report, nil
}

func (a *app) runValidate(cmd *cobra.Command, projectPath string) error {
	form, err := design.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading design: %w", err)
	}

	_, report := validation.ValidateForm(form)
	printValidationReport(cmd.OutOrStdout(), report)

	if !report.Valid {
		return errInvalidDesign
	}
	return nil
}

func (a *app) runCalculate(cmd *cobra.Command, projectPath string, useRisk bool) error {
	d, report, err := a.calculate(cmd, projectPath, useRisk)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printDesign(w, d)
	fmt.Fprintln(w)
	printCostReport(w, d.Cost)
	if len(report.Warnings)+len(report.Info) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, report)
	}
	return nil
}

func (a *app) runCost(cmd *cobra.Command, projectPath string) error {
	d, report, err := a.calculate(cmd, projectPath, false)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printCostReport(w, d.Cost)

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, report)
	}
	return nil
}

func (a *app) runSolve(cmd *cobra.Command, projectPath string, useRisk bool) error {
	d, report, err := a.calculate(cmd, projectPath, useRisk)
	if err != nil {
		return err
	}

	output := map[string]any{
		"design":     d,
		"validation": report,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func (a *app) runTrain(cmd *cobra.Command, dataPath, modelPath string) error {
	if dataPath == "" {
		dataPath = a.cfg.TrainingData
	}
	if modelPath == "" {
		modelPath = a.cfg.ModelPath
	}
	if dataPath == "" {
		return errors.New("no training data; pass --data or set STOPE_TRAINING_DATA")
	}

	a.logger.Info("training model",
		zap.String("data", dataPath),
		zap.Int("trees", a.cfg.Params.Trees),
		zap.Int("max_depth", a.cfg.Params.MaxDepth),
		zap.Uint64("seed", a.cfg.Params.Seed),
	)
	res, err := risk.TrainFromCSV(cmd.Context(), dataPath, a.cfg.Params)
	if err != nil {
		return err
	}
	if err := risk.Save(modelPath, res.Forest); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printMetrics(w, res)
	fmt.Fprintf(w, "\nModel saved to %s\n", modelPath)
	return nil
}

func runDescribe(cmd *cobra.Command, csvPath string) error {
	ds, err := risk.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	printDescribe(cmd.OutOrStdout(), risk.Describe(ds))
	return nil
}

func runFilter(cmd *cobra.Command, csvPath string, where []string, out string) error {
	conds := make([]risk.Condition, 0, len(where))
	for _, w := range where {
		c, err := risk.ParseCondition(w)
		if err != nil {
			return err
		}
		conds = append(conds, c)
	}

	ds, err := risk.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	subset, err := risk.Filter(ds, conds...)
	if err != nil {
		return err
	}

	if out == "" {
		return risk.WriteCSV(cmd.OutOrStdout(), subset)
	}
	if err := risk.SaveCSV(out, subset); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Selected %d of %d rows, saved to %s\n", subset.Len(), ds.Len(), out)
	return nil
}

func (a *app) runWatch(cmd *cobra.Command, projectPath string, useRisk bool) error {
	w := cmd.OutOrStdout()
	onResult := func(r watch.Result) {
		fmt.Fprintf(w, "\n== %s ==\n", r.Path)
		switch {
		case errors.Is(r.Err, planner.ErrInvalidInput):
			printValidationReport(w, r.Report)
		case r.Err != nil:
			fmt.Fprintf(w, "error: %v\n", r.Err)
		default:
			printDesign(w, r.Design)
		}
	}

	watcher := watch.New(projectPath, a.engine(useRisk), onResult,
		watch.WithDebounce(a.cfg.Debounce),
		watch.WithLogger(a.logger),
	)
	return watcher.Run(cmd.Context())
}
