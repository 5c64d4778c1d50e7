package actions

import (
	"context"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type processStepInput struct {
	StepNumber   int    `form:"step_number" validate:"min=1,max=50"`
	Title        string `form:"title" validate:"required,max=200"`
	Description  string `form:"description" validate:"required,max=2000"`
	Icon         string `form:"icon" validate:"max=60"`
	Duration     string `form:"duration" validate:"max=60"`
	DisplayOrder int    `form:"display_order" validate:"min=0,max=100000"`
}

func parseProcessStep(f *form) processStepInput {
	return processStepInput{
		StepNumber:   f.int("step_number", 0),
		Title:        f.str("title"),
		Description:  f.str("description"),
		Icon:         f.str("icon"),
		Duration:     f.str("duration"),
		DisplayOrder: f.int("display_order", 0),
	}
}

func (in processStepInput) apply(s *domain.ProcessStep) {
	s.StepNumber = in.StepNumber
	s.Title = in.Title
	s.Description = in.Description
	s.Icon = in.Icon
	s.Duration = in.Duration
	s.DisplayOrder = in.DisplayOrder
}

func (a *Actions) CreateProcessStep(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := parseProcessStep(f)
	return a.write(ctx, domain.TableProcessSteps, domain.OpInsert, f, in, func() (string, error) {
		var s domain.ProcessStep
		in.apply(&s)
		if err := a.store.CreateProcessStep(ctx, &s); err != nil {
			return "", err
		}
		return s.ID, nil
	})
}

func (a *Actions) UpdateProcessStep(ctx context.Context, id string, values url.Values) Result {
	f := newForm(values)
	in := parseProcessStep(f)
	return a.write(ctx, domain.TableProcessSteps, domain.OpUpdate, f, in, func() (string, error) {
		s := domain.ProcessStep{ID: id}
		in.apply(&s)
		return id, a.store.UpdateProcessStep(ctx, &s)
	})
}

func (a *Actions) DeleteProcessStep(ctx context.Context, id string) Result {
	return a.write(ctx, domain.TableProcessSteps, domain.OpDelete, nil, nil, func() (string, error) {
		return id, a.store.DeleteProcessStep(ctx, id)
	})
}
