// Package watch recalculates a stope design whenever its project file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/planner"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

// DefaultDebounce batches the burst of events an editor emits on save.
const DefaultDebounce = 300 * time.Millisecond

// Calculator computes a design from a file. *planner.Engine satisfies it.
type Calculator interface {
	CalculateFile(ctx context.Context, path string) (*planner.Design, *validation.Report, error)
}

// Result is one completed recalculation.
type Result struct {
	Path   string
	Design *planner.Design
	Report *validation.Report
	Err    error
}

// Watcher watches a project directory for changes to stope.yaml.
type Watcher struct {
	dir      string
	path     string
	calc     Calculator
	onResult func(Result)
	debounce time.Duration
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change before
// recalculating.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for the project in dir. onResult receives the
// result of every recalculation that was not superseded by a later change.
func New(dir string, calc Calculator, onResult func(Result), opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		path:     design.ProjectPath(dir),
		calc:     calc,
		onResult: onResult,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named("watch")
	return w
}

// Run calculates the design once, then recalculates on every change until
// ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file by rename.
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	runner := NewSupersede(func(r Result, _ error) { w.onResult(r) })
	defer runner.Close()

	w.logger.Info("watching project", zap.String("path", w.path), zap.Duration("debounce", w.debounce))
	runner.Submit(ctx, w.calculate)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("design file changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			runner.Submit(ctx, w.calculate)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) calculate(ctx context.Context) (Result, error) {
	start := time.Now()
	d, report, err := w.calc.CalculateFile(ctx, w.path)
	w.logger.Debug("recalculated", zap.Duration("elapsed", time.Since(start)), zap.Bool("ok", err == nil))
	return Result{Path: w.path, Design: d, Report: report, Err: err}, nil
}
