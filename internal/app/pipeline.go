package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/odegrid/internal/model"
	"github.com/specialistvlad/odegrid/internal/naming"
	"github.com/specialistvlad/odegrid/internal/observability"
	"github.com/specialistvlad/odegrid/internal/plan"
)

// Result is the outcome of a full pipeline run.
type Result struct {
	Model    *model.Model
	Warnings []model.Warning
	Order    *plan.Order
	Names    *naming.Table
}

// Load reads the configured model paths.
func (a *App) Load(ctx context.Context) error {
	return a.stage(ctx, observability.StageLoad, func(ctx context.Context) error {
		m, err := a.loader.Load(ctx, a.config.ModelPaths...)
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}
		a.model = m
		a.metrics.SetModelSize(m)
		a.logger.Info("Model loaded.", "model", m.Name(), "components", len(m.Components()), "states", len(m.States()))
		return nil
	})
}

// Validate validates the loaded model.
func (a *App) Validate(ctx context.Context) error {
	if a.model == nil {
		return ErrNoModel
	}
	return a.stage(ctx, observability.StageValidate, func(ctx context.Context) error {
		m := a.model
		err := m.Validate(ctx, model.ValidateOptions{RemoveUnused: a.config.Validate.RemoveUnused})
		a.metrics.RecordValidation(m, err)
		if err != nil {
			return fmt.Errorf("model %q is invalid: %w", m.Name(), err)
		}
		a.logger.Info("Model is valid.", "model", m.Name(), "warnings", len(m.Warnings()))
		return nil
	})
}

// Plan computes the evaluation order of the validated model.
func (a *App) Plan(ctx context.Context) (*plan.Order, error) {
	if a.model == nil {
		return nil, ErrNoModel
	}
	var order *plan.Order
	err := a.stage(ctx, observability.StagePlan, func(ctx context.Context) error {
		var err error
		order, err = plan.Compute(ctx, a.model)
		return err
	})
	return order, err
}

// Names assigns unique output names using the configured reservations.
func (a *App) Names(ctx context.Context) (*naming.Table, error) {
	if a.model == nil {
		return nil, ErrNoModel
	}
	var tbl *naming.Table
	err := a.stage(ctx, observability.StageNames, func(ctx context.Context) error {
		var err error
		tbl, err = naming.Assign(ctx, a.model, naming.Options{
			Reserved:  a.config.Naming.Reserved,
			Prefixes:  a.config.Naming.Prefixes,
			Separator: a.config.Naming.Separator,
		})
		return err
	})
	return tbl, err
}

// Run executes the whole pipeline: load, validate, plan and name.
func (a *App) Run(ctx context.Context) (*Result, error) {
	a.logger.Debug("App.Run method started.")
	if err := a.Load(ctx); err != nil {
		return nil, err
	}
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}
	order, err := a.Plan(ctx)
	if err != nil {
		return nil, err
	}
	names, err := a.Names(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("App.Run method finished.", "equations", order.Len())
	return &Result{
		Model:    a.model,
		Warnings: a.model.Warnings(),
		Order:    order,
		Names:    names,
	}, nil
}
