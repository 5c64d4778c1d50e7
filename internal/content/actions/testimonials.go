package actions

import (
	"context"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type testimonialInput struct {
	ClientName   string `form:"client_name" validate:"required,max=120"`
	ClientRole   string `form:"client_role" validate:"max=120"`
	Location     string `form:"location" validate:"max=120"`
	Quote        string `form:"quote" validate:"required,max=2000"`
	Rating       int    `form:"rating" validate:"min=1,max=5"`
	Image        string `form:"image" validate:"omitempty,max=1000,imageref"`
	ProjectSlug  string `form:"project_slug" validate:"omitempty,max=80,slug"`
	Featured     bool   `form:"featured"`
	DisplayOrder int    `form:"display_order" validate:"min=0,max=100000"`
}

func parseTestimonial(f *form) testimonialInput {
	return testimonialInput{
		ClientName:   f.str("client_name"),
		ClientRole:   f.str("client_role"),
		Location:     f.str("location"),
		Quote:        f.str("quote"),
		Rating:       f.int("rating", 5),
		Image:        f.str("image"),
		ProjectSlug:  f.str("project_slug"),
		Featured:     f.bool("featured"),
		DisplayOrder: f.int("display_order", 0),
	}
}

func (in testimonialInput) apply(t *domain.Testimonial) {
	t.ClientName = in.ClientName
	t.ClientRole = in.ClientRole
	t.Location = in.Location
	t.Quote = in.Quote
	t.Rating = in.Rating
	t.Image = in.Image
	t.ProjectSlug = in.ProjectSlug
	t.Featured = in.Featured
	t.DisplayOrder = in.DisplayOrder
}

func (a *Actions) CreateTestimonial(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := parseTestimonial(f)
	return a.write(ctx, domain.TableTestimonials, domain.OpInsert, f, in, func() (string, error) {
		var t domain.Testimonial
		in.apply(&t)
		if err := a.store.CreateTestimonial(ctx, &t); err != nil {
			return "", err
		}
		return t.ID, nil
	})
}

func (a *Actions) UpdateTestimonial(ctx context.Context, id string, values url.Values) Result {
	f := newForm(values)
	in := parseTestimonial(f)
	return a.write(ctx, domain.TableTestimonials, domain.OpUpdate, f, in, func() (string, error) {
		t := domain.Testimonial{ID: id}
		in.apply(&t)
		return id, a.store.UpdateTestimonial(ctx, &t)
	})
}

func (a *Actions) DeleteTestimonial(ctx context.Context, id string) Result {
	return a.write(ctx, domain.TableTestimonials, domain.OpDelete, nil, nil, func() (string, error) {
		return id, a.store.DeleteTestimonial(ctx, id)
	})
}
