package actions

import (
	"context"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type projectInput struct {
	Slug         string   `form:"slug" validate:"required,max=80,slug"`
	Title        string   `form:"title" validate:"required,max=200"`
	Description  string   `form:"description" validate:"max=5000"`
	RoomType     string   `form:"room_type" validate:"required,max=60"`
	Style        string   `form:"style" validate:"max=60"`
	Location     string   `form:"location" validate:"max=120"`
	Area         string   `form:"area" validate:"max=60"`
	Year         int      `form:"year" validate:"omitempty,min=1950,max=2100"`
	Duration     string   `form:"duration" validate:"max=60"`
	CoverImage   string   `form:"cover_image" validate:"omitempty,max=1000,imageref"`
	Images       []string `form:"images" validate:"max=40,dive,max=1000,imageref"`
	Features     []string `form:"features" validate:"max=40,dive,max=200"`
	Featured     bool     `form:"featured"`
	DisplayOrder int      `form:"display_order" validate:"min=0,max=100000"`
}

func parseProject(f *form) projectInput {
	return projectInput{
		Slug:         f.str("slug"),
		Title:        f.str("title"),
		Description:  f.str("description"),
		RoomType:     f.str("room_type"),
		Style:        f.str("style"),
		Location:     f.str("location"),
		Area:         f.str("area"),
		Year:         f.int("year", 0),
		Duration:     f.str("duration"),
		CoverImage:   f.str("cover_image"),
		Images:       f.list("images"),
		Features:     f.list("features"),
		Featured:     f.bool("featured"),
		DisplayOrder: f.int("display_order", 0),
	}
}

func (in projectInput) apply(p *domain.Project) {
	p.Slug = in.Slug
	p.Title = in.Title
	p.Description = in.Description
	p.RoomType = in.RoomType
	p.Style = in.Style
	p.Location = in.Location
	p.Area = in.Area
	p.Year = in.Year
	p.Duration = in.Duration
	p.CoverImage = in.CoverImage
	p.Images = in.Images
	p.Features = in.Features
	p.Featured = in.Featured
	p.DisplayOrder = in.DisplayOrder
}

func (a *Actions) CreateProject(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := parseProject(f)
	return a.write(ctx, domain.TableProjects, domain.OpInsert, f, in, func() (string, error) {
		var p domain.Project
		in.apply(&p)
		if err := a.store.CreateProject(ctx, &p); err != nil {
			return "", err
		}
		return p.ID, nil
	})
}

// UpdateProject replaces every editable field of project id.
func (a *Actions) UpdateProject(ctx context.Context, id string, values url.Values) Result {
	f := newForm(values)
	in := parseProject(f)
	return a.write(ctx, domain.TableProjects, domain.OpUpdate, f, in, func() (string, error) {
		p := domain.Project{ID: id}
		in.apply(&p)
		if err := a.store.UpdateProject(ctx, &p); err != nil {
			return "", err
		}
		return p.ID, nil
	})
}

func (a *Actions) DeleteProject(ctx context.Context, id string) Result {
	return a.write(ctx, domain.TableProjects, domain.OpDelete, nil, nil, func() (string, error) {
		return id, a.store.DeleteProject(ctx, id)
	})
}
