package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
	"github.com/specialistvlad/odegrid/internal/loader"
	"github.com/specialistvlad/odegrid/internal/model"
	"github.com/specialistvlad/odegrid/internal/observability"
)

// ErrNoModel is returned by stages that need a loaded model.
var ErrNoModel = errors.New("no model loaded")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  *loader.Loader
	metrics *observability.Collector

	stopTracing func(context.Context) error
	traceFile   *os.File

	model *model.Model
}

// NewApp is the constructor for the main application. Logs, and spans when
// tracing goes to no file, are written to logW. Metrics are registered on a
// registry private to the app.
func NewApp(ctx context.Context, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		logW:        logW,
		logger:      logger,
		config:      cfg,
		loader:      loader.New(),
		stopTracing: func(context.Context) error { return nil },
	}

	if cfg.Metrics.Enabled {
		collector, err := observability.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("failed to set up metrics: %w", err)
		}
		a.metrics = collector
		logger.Debug("Metrics enabled.", "file", cfg.Metrics.File)
	}

	if cfg.Tracing.Enabled {
		w := logW
		if cfg.Tracing.File != "" {
			f, err := os.Create(cfg.Tracing.File)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace file: %w", err)
			}
			a.traceFile = f
			w = f
		}
		stop, err := observability.InitTracing(ctx, observability.TracingConfig{Enabled: true, Writer: w})
		if err != nil {
			a.closeTraceFile()
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		a.stopTracing = stop
		logger.Debug("Tracing enabled.", "file", cfg.Tracing.File)
	}
	return a, nil
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the application's configuration.
func (a *App) Config() *Config { return a.config }

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (a *App) Metrics() *observability.Collector { return a.metrics }

// Model returns the loaded model, or nil before Load.
func (a *App) Model() *model.Model { return a.model }

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// WriteDiagnostics renders err to w. Load errors carry source positions and
// are shown with the offending lines; other errors are printed as is.
func (a *App) WriteDiagnostics(w io.Writer, err error) error {
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) {
		_, werr := fmt.Fprintln(w, err)
		return werr
	}
	wr := hcl.NewDiagnosticTextWriter(w, a.loader.Files(), 78, false)
	return wr.WriteDiagnostics(diags)
}

// Close flushes spans and writes the metrics file, if configured.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.stopTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop tracing: %w", err))
	}
	a.closeTraceFile()
	if a.metrics != nil && a.config.Metrics.File != "" {
		if err := a.metrics.WriteTextfile(a.config.Metrics.File); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) closeTraceFile() {
	if a.traceFile != nil {
		_ = a.traceFile.Close()
		a.traceFile = nil
	}
}

// stage runs fn inside a span and records its duration.
func (a *App) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	modelName := ""
	if a.model != nil {
		modelName = a.model.Name()
	}
	ctx, span := observability.StartStage(a.Context(ctx), name, modelName)
	defer span.End()

	err := fn(ctx)
	observability.RecordError(span, err)
	a.metrics.ObserveStage(name, time.Since(start))
	return err
}
