package http

import (
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	"github.com/atelier-interiors/cms-backend/internal/inquiry/service"
)

// Handler bundles the dependencies for inquiry HTTP endpoints.
type Handler struct {
	service *service.Service
	query   *query.Service
}

func New(svc *service.Service, q *query.Service) *Handler {
	return &Handler{service: svc, query: q}
}
