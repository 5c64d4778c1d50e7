package http

import (
	"github.com/atelier-interiors/cms-backend/internal/blob"
	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	"github.com/atelier-interiors/cms-backend/internal/site/pages"
)

// Handler bundles the dependencies for content HTTP endpoints.
type Handler struct {
	query    *query.Service
	pages    *pages.Service
	actions  *actions.Actions
	uploader *blob.Uploader
}

func New(q *query.Service, p *pages.Service, a *actions.Actions, uploader *blob.Uploader) *Handler {
	return &Handler{query: q, pages: p, actions: a, uploader: uploader}
}
