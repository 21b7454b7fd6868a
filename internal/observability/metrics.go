package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/odegrid/internal/model"
)

// Pipeline stage labels.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StagePlan     = "plan"
	StageNames    = "names"
)

// Collector bundles the Prometheus metrics of a model processing run.
type Collector struct {
	gatherer prometheus.Gatherer

	Validations    *prometheus.CounterVec
	Warnings       *prometheus.CounterVec
	StageDurations *prometheus.HistogramVec

	ModelComponents prometheus.Gauge
	ModelVariables  prometheus.Gauge
	ModelStates     prometheus.Gauge
}

// NewCollector registers the metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	validations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odegrid_validations_total",
		Help: "Model validations, labeled by outcome (valid, invalid, cycle, error).",
	}, []string{"outcome"}), "odegrid_validations_total")
	if err != nil {
		return nil, err
	}
	warnings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odegrid_validation_warnings_total",
		Help: "Warnings produced by validation, labeled by kind.",
	}, []string{"kind"}), "odegrid_validation_warnings_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odegrid_stage_duration_seconds",
		Help:    "Duration of each processing stage in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"stage"}), "odegrid_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	components, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "odegrid_model_components",
		Help: "Number of components in the last processed model.",
	}), "odegrid_model_components")
	if err != nil {
		return nil, err
	}
	variables, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "odegrid_model_variables",
		Help: "Number of variables, nested ones included, in the last processed model.",
	}), "odegrid_model_variables")
	if err != nil {
		return nil, err
	}
	states, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "odegrid_model_states",
		Help: "Number of state variables in the last processed model.",
	}), "odegrid_model_states")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		Validations:     validations,
		Warnings:        warnings,
		StageDurations:  durations,
		ModelComponents: components,
		ModelVariables:  variables,
		ModelStates:     states,
	}, nil
}

// Gatherer returns the gatherer matching the registerer the collector was
// created with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil || c.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// ObserveStage records how long a stage took. A nil collector records nothing.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordValidation records the outcome of validating m.
func (c *Collector) RecordValidation(m *model.Model, err error) {
	if c == nil {
		return
	}
	c.Validations.WithLabelValues(Outcome(err)).Inc()
	for _, w := range m.Warnings() {
		c.Warnings.WithLabelValues(w.Kind.String()).Inc()
	}
	c.SetModelSize(m)
}

// SetModelSize updates the model gauges.
func (c *Collector) SetModelSize(m *model.Model) {
	if c == nil {
		return
	}
	c.ModelComponents.Set(float64(len(m.Components())))
	c.ModelVariables.Set(float64(m.Count(model.Filter{Deep: true})))
	c.ModelStates.Set(float64(len(m.States())))
}

// WriteTextfile writes the gathered metrics to path in the Prometheus text
// format, for pickup by a node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.Gatherer()); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
