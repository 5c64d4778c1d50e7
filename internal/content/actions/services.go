package actions

import (
	"context"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type serviceInput struct {
	Title        string   `form:"title" validate:"required,max=200"`
	Description  string   `form:"description" validate:"required,max=5000"`
	Icon         string   `form:"icon" validate:"max=60"`
	Image        string   `form:"image" validate:"omitempty,max=1000,imageref"`
	Features     []string `form:"features" validate:"max=40,dive,max=200"`
	Deliverables []string `form:"deliverables" validate:"max=40,dive,max=200"`
	PriceRange   string   `form:"price_range" validate:"max=120"`
	Featured     bool     `form:"featured"`
	DisplayOrder int      `form:"display_order" validate:"min=0,max=100000"`
}

func parseService(f *form) serviceInput {
	return serviceInput{
		Title:        f.str("title"),
		Description:  f.str("description"),
		Icon:         f.str("icon"),
		Image:        f.str("image"),
		Features:     f.list("features"),
		Deliverables: f.list("deliverables"),
		PriceRange:   f.str("price_range"),
		Featured:     f.bool("featured"),
		DisplayOrder: f.int("display_order", 0),
	}
}

func (in serviceInput) apply(s *domain.Service) {
	s.Title = in.Title
	s.Description = in.Description
	s.Icon = in.Icon
	s.Image = in.Image
	s.Features = in.Features
	s.Deliverables = in.Deliverables
	s.PriceRange = in.PriceRange
	s.Featured = in.Featured
	s.DisplayOrder = in.DisplayOrder
}

func (a *Actions) CreateService(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := parseService(f)
	return a.write(ctx, domain.TableServices, domain.OpInsert, f, in, func() (string, error) {
		var s domain.Service
		in.apply(&s)
		if err := a.store.CreateService(ctx, &s); err != nil {
			return "", err
		}
		return s.ID, nil
	})
}

func (a *Actions) UpdateService(ctx context.Context, id string, values url.Values) Result {
	f := newForm(values)
	in := parseService(f)
	return a.write(ctx, domain.TableServices, domain.OpUpdate, f, in, func() (string, error) {
		s := domain.Service{ID: id}
		in.apply(&s)
		return id, a.store.UpdateService(ctx, &s)
	})
}

func (a *Actions) DeleteService(ctx context.Context, id string) Result {
	return a.write(ctx, domain.TableServices, domain.OpDelete, nil, nil, func() (string, error) {
		return id, a.store.DeleteService(ctx, id)
	})
}
