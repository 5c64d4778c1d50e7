package actions

import (
	"context"
	"net/url"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type videoInput struct {
	Title        string `form:"title" validate:"required,max=200"`
	Description  string `form:"description" validate:"max=2000"`
	VideoURL     string `form:"video_url" validate:"required,max=1000,http_url"`
	Thumbnail    string `form:"thumbnail" validate:"omitempty,max=1000,imageref"`
	Category     string `form:"category" validate:"required,max=60"`
	Featured     bool   `form:"featured"`
	DisplayOrder int    `form:"display_order" validate:"min=0,max=100000"`
}

func parseVideo(f *form) videoInput {
	return videoInput{
		Title:        f.str("title"),
		Description:  f.str("description"),
		VideoURL:     f.str("video_url"),
		Thumbnail:    f.str("thumbnail"),
		Category:     f.str("category"),
		Featured:     f.bool("featured"),
		DisplayOrder: f.int("display_order", 0),
	}
}

func (in videoInput) apply(v *domain.Video) {
	v.Title = in.Title
	v.Description = in.Description
	v.VideoURL = in.VideoURL
	v.Thumbnail = in.Thumbnail
	v.Category = in.Category
	v.Featured = in.Featured
	v.DisplayOrder = in.DisplayOrder
}

func (a *Actions) CreateVideo(ctx context.Context, values url.Values) Result {
	f := newForm(values)
	in := parseVideo(f)
	return a.write(ctx, domain.TableVideos, domain.OpInsert, f, in, func() (string, error) {
		var v domain.Video
		in.apply(&v)
		if err := a.store.CreateVideo(ctx, &v); err != nil {
			return "", err
		}
		return v.ID, nil
	})
}

func (a *Actions) UpdateVideo(ctx context.Context, id string, values url.Values) Result {
	f := newForm(values)
	in := parseVideo(f)
	return a.write(ctx, domain.TableVideos, domain.OpUpdate, f, in, func() (string, error) {
		v := domain.Video{ID: id}
		in.apply(&v)
		return id, a.store.UpdateVideo(ctx, &v)
	})
}

func (a *Actions) DeleteVideo(ctx context.Context, id string) Result {
	return a.write(ctx, domain.TableVideos, domain.OpDelete, nil, nil, func() (string, error) {
		return id, a.store.DeleteVideo(ctx, id)
	})
}
