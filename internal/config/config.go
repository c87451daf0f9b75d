// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChicagoDave/stopeplanner/pkg/risk"
)

// Environment variables.
const (
	EnvModelPath    = "STOPE_MODEL_PATH"
	EnvTrainingData = "STOPE_TRAINING_DATA"
	EnvTrees        = "STOPE_TREES"
	EnvMaxDepth     = "STOPE_MAX_DEPTH"
	EnvSeed         = "STOPE_SEED"
	EnvRisk         = "STOPE_RISK"
	EnvDebounce     = "STOPE_DEBOUNCE"
)

// DefaultEnvFile is read when no env file is named explicitly.
const DefaultEnvFile = ".env"

// DefaultDebounce is the watch delay used when STOPE_DEBOUNCE is unset.
const DefaultDebounce = 300 * time.Millisecond

// Config holds runtime settings.
type Config struct {
	ModelPath    string
	TrainingData string
	Risk         bool // consult the failure-risk predictor
	Params       risk.Params
	Debounce     time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ModelPath:    "models/failure_prediction_model.json",
		TrainingData: "data/stope_history.csv",
		Params:       risk.DefaultParams(),
		Debounce:     DefaultDebounce,
	}
}

// Load reads envFile and then the process environment, which takes
// precedence. An empty envFile means DefaultEnvFile, which may be absent;
// an explicitly named file must exist.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}

	name, explicit := envFile, envFile != ""
	if !explicit {
		name = DefaultEnvFile
	}
	vars, err := godotenv.Read(name)
	switch {
	case err == nil:
		fileVars = vars
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading env file %s: %w", name, err)
	}

	return FromEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

// FromEnv builds a Config from lookup, starting from Default. Malformed
// values are errors naming the variable.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()

	if v, ok := lookup(EnvModelPath); ok && v != "" {
		c.ModelPath = v
	}
	if v, ok := lookup(EnvTrainingData); ok {
		c.TrainingData = v
	}

	var err error
	if v, ok := lookup(EnvRisk); ok && v != "" {
		if c.Risk, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvRisk, err)
		}
	}
	if c.Params.Trees, err = positiveInt(lookup, EnvTrees, c.Params.Trees); err != nil {
		return Config{}, err
	}
	if c.Params.MaxDepth, err = positiveInt(lookup, EnvMaxDepth, c.Params.MaxDepth); err != nil {
		return Config{}, err
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		if c.Params.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
	}
	if v, ok := lookup(EnvDebounce); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s must be positive, got %s", EnvDebounce, v)
		}
		c.Debounce = d
	}
	return c, nil
}

func positiveInt(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
