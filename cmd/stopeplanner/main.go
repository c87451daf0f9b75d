package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChicagoDave/stopeplanner/internal/config"
)

// app holds state shared by every command, set up in PersistentPreRunE.
type app struct {
	verbose bool
	envFile string

	logger *zap.Logger
	cfg    config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stopeplanner",
		Short: "Stope design calculator for Indian underground metal mines",
		Long: `stopeplanner recommends a stoping method and excavation dimensions from
geological inputs, checks stability against DGMS limits and estimates the
cost of the stope. A failure-risk classifier trained on historical stope
data can be consulted with --risk.

A project is a directory holding a stope.yaml design file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "read settings from this file instead of .env")

	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(calculateCmd(a))
	rootCmd.AddCommand(costCmd(a))
	rootCmd.AddCommand(solveCmd(a))
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(trainCmd(a))
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(filterCmd())
	rootCmd.AddCommand(watchCmd(a))

	return rootCmd
}

func (a *app) init() error {
	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded",
		zap.String("model", cfg.ModelPath),
		zap.String("training_data", cfg.TrainingData),
		zap.Bool("risk", cfg.Risk),
	)
	return nil
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a stope design without calculating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args[0])
		},
	}
}

func calculateCmd(a *app) *cobra.Command {
	var useRisk bool

	cmd := &cobra.Command{
		Use:   "calculate [project-path]",
		Short: "Calculate the stope method, dimensions, stability and cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalculate(cmd, args[0], useRisk)
		},
	}

	cmd.Flags().BoolVar(&useRisk, "risk", false, "predict failure probability with the trained model")
	return cmd
}

func costCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cost [project-path]",
		Short: "Compute and display the cost estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCost(cmd, args[0])
		},
	}
}

func solveCmd(a *app) *cobra.Command {
	var useRisk bool

	cmd := &cobra.Command{
		Use:   "solve [project-path]",
		Short: "Calculate the design and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSolve(cmd, args[0], useRisk)
		},
	}

	cmd.Flags().BoolVar(&useRisk, "risk", false, "predict failure probability with the trained model")
	return cmd
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the stoping methods and their typical envelopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printStopeTypes(cmd.OutOrStdout())
			return nil
		},
	}
}

func trainCmd(a *app) *cobra.Command {
	var dataPath, modelPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the failure-risk classifier from historical data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTrain(cmd, dataPath, modelPath)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "historical stope CSV (default from STOPE_TRAINING_DATA)")
	cmd.Flags().StringVar(&modelPath, "model", "", "model output path (default from STOPE_MODEL_PATH)")
	return cmd
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [csv-path]",
		Short: "Summarise a historical stope data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0])
		},
	}
}

func filterCmd() *cobra.Command {
	var where []string
	var out string

	cmd := &cobra.Command{
		Use:   "filter [csv-path]",
		Short: "Select historical stope rows matching every --where condition",
		Example: `  stopeplanner filter data/stope_history.csv --where "rqd<50" --where "mining_depth>=600"
  stopeplanner filter data/stope_history.csv --where failure=1 --out data/failures.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args[0], where, out)
		},
	}

	cmd.Flags().StringArrayVar(&where, "where", nil, "condition such as rqd<50 (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "write the selected rows to this CSV file instead of stdout")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var useRisk bool

	cmd := &cobra.Command{
		Use:   "watch [project-path]",
		Short: "Recalculate the design whenever stope.yaml changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args[0], useRisk)
		},
	}

	cmd.Flags().BoolVar(&useRisk, "risk", false, "predict failure probability with the trained model")
	return cmd
}
