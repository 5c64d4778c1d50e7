// Package query is the read side used by public pages and the admin console.
// Reads never fail: a store error is logged and counted, and the caller gets
// an empty slice, a nil record or zero stats.
package query

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
)

const (
	DefaultRelatedLimit  = 3
	MaxRelatedLimit      = 12
	DefaultFeaturedLimit = 6
	MaxFeaturedLimit     = 24
	DefaultInquiryLimit  = 200
)

type Service struct {
	store store.Store
}

func New(s store.Store) *Service {
	return &Service{store: s}
}

func degrade(ctx context.Context, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	logging.New(ctx).Error("query."+op, err)
	metrics.DegradedReads.WithLabelValues(op).Inc()
}

func list[T any](ctx context.Context, op string, table domain.Table, fetch func() ([]T, error)) []T {
	if err := domain.Authorize(domain.RoleFrom(ctx), table, domain.OpRead); err != nil {
		degrade(ctx, op, err)
		return []T{}
	}
	items, err := fetch()
	if err != nil {
		degrade(ctx, op, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func one[T any](ctx context.Context, op string, table domain.Table, fetch func() (*T, error)) *T {
	if err := domain.Authorize(domain.RoleFrom(ctx), table, domain.OpRead); err != nil {
		degrade(ctx, op, err)
		return nil
	}
	item, err := fetch()
	if err != nil {
		degrade(ctx, op, err)
		return nil
	}
	return item
}

func clamp(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Projects

func (s *Service) GetProjects(ctx context.Context) []domain.Project {
	return list(ctx, "GetProjects", domain.TableProjects, func() ([]domain.Project, error) {
		return s.store.ListProjects(ctx)
	})
}

func (s *Service) GetProjectByID(ctx context.Context, id string) *domain.Project {
	return one(ctx, "GetProjectByID", domain.TableProjects, func() (*domain.Project, error) {
		return s.store.GetProject(ctx, id)
	})
}

func (s *Service) GetProjectBySlug(ctx context.Context, slug string) *domain.Project {
	return one(ctx, "GetProjectBySlug", domain.TableProjects, func() (*domain.Project, error) {
		return s.store.GetProjectBySlug(ctx, slug)
	})
}

// GetProjectsByCategory lists projects whose room type matches category.
func (s *Service) GetProjectsByCategory(ctx context.Context, category string) []domain.Project {
	return list(ctx, "GetProjectsByCategory", domain.TableProjects, func() ([]domain.Project, error) {
		return s.store.ListProjectsByRoomType(ctx, category)
	})
}

func (s *Service) GetFeaturedProjects(ctx context.Context, limit int) []domain.Project {
	limit = clamp(limit, DefaultFeaturedLimit, MaxFeaturedLimit)
	return list(ctx, "GetFeaturedProjects", domain.TableProjects, func() ([]domain.Project, error) {
		return s.store.ListFeaturedProjects(ctx, limit)
	})
}

// GetRelatedProjects returns up to limit projects in the same category,
// excluding slug itself. Projects sharing style come first; display order is
// kept otherwise.
func (s *Service) GetRelatedProjects(ctx context.Context, slug, category, style string, limit int) []domain.Project {
	limit = clamp(limit, DefaultRelatedLimit, MaxRelatedLimit)
	candidates := s.GetProjectsByCategory(ctx, category)

	out := make([]domain.Project, 0, len(candidates))
	for _, p := range candidates {
		if p.Slug != slug {
			out = append(out, p)
		}
	}
	if style != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return strings.EqualFold(out[i].Style, style) && !strings.EqualFold(out[j].Style, style)
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Services

func (s *Service) GetServices(ctx context.Context) []domain.Service {
	return list(ctx, "GetServices", domain.TableServices, func() ([]domain.Service, error) {
		return s.store.ListServices(ctx)
	})
}

func (s *Service) GetServiceByID(ctx context.Context, id string) *domain.Service {
	return one(ctx, "GetServiceByID", domain.TableServices, func() (*domain.Service, error) {
		return s.store.GetService(ctx, id)
	})
}

// Testimonials

func (s *Service) GetTestimonials(ctx context.Context) []domain.Testimonial {
	return list(ctx, "GetTestimonials", domain.TableTestimonials, func() ([]domain.Testimonial, error) {
		return s.store.ListTestimonials(ctx)
	})
}

func (s *Service) GetFeaturedTestimonials(ctx context.Context) []domain.Testimonial {
	all := s.GetTestimonials(ctx)
	out := make([]domain.Testimonial, 0, len(all))
	for _, t := range all {
		if t.Featured {
			out = append(out, t)
		}
	}
	return out
}

func (s *Service) GetTestimonialByID(ctx context.Context, id string) *domain.Testimonial {
	return one(ctx, "GetTestimonialByID", domain.TableTestimonials, func() (*domain.Testimonial, error) {
		return s.store.GetTestimonial(ctx, id)
	})
}

// Process steps

func (s *Service) GetProcessSteps(ctx context.Context) []domain.ProcessStep {
	return list(ctx, "GetProcessSteps", domain.TableProcessSteps, func() ([]domain.ProcessStep, error) {
		return s.store.ListProcessSteps(ctx)
	})
}

func (s *Service) GetProcessStepByID(ctx context.Context, id string) *domain.ProcessStep {
	return one(ctx, "GetProcessStepByID", domain.TableProcessSteps, func() (*domain.ProcessStep, error) {
		return s.store.GetProcessStep(ctx, id)
	})
}

// Videos

func (s *Service) GetVideos(ctx context.Context) []domain.Video {
	return list(ctx, "GetVideos", domain.TableVideos, func() ([]domain.Video, error) {
		return s.store.ListVideos(ctx)
	})
}

func (s *Service) GetVideosByCategory(ctx context.Context, category string) []domain.Video {
	return list(ctx, "GetVideosByCategory", domain.TableVideos, func() ([]domain.Video, error) {
		return s.store.ListVideosByCategory(ctx, category)
	})
}

func (s *Service) GetVideoByID(ctx context.Context, id string) *domain.Video {
	return one(ctx, "GetVideoByID", domain.TableVideos, func() (*domain.Video, error) {
		return s.store.GetVideo(ctx, id)
	})
}

// Site content

// GetSiteContent returns the stored document for key, or the built-in
// default when the section was never published or cannot be read.
func (s *Service) GetSiteContent(ctx context.Context, key string) domain.ContentSection {
	sec := one(ctx, "GetSiteContent", domain.TableSiteContent, func() (*domain.ContentSection, error) {
		if !domain.ValidSectionKey(key) {
			return nil, domain.ErrNotFound
		}
		return s.store.GetSection(ctx, key)
	})
	if sec == nil {
		return domain.ContentSection{SectionKey: key, Content: domain.DefaultSection(key)}
	}
	return *sec
}

// GetAllSiteContent maps section key to document. Built-in sections that were
// never published are filled with their defaults.
func (s *Service) GetAllSiteContent(ctx context.Context) map[string]domain.Document {
	sections := list(ctx, "GetAllSiteContent", domain.TableSiteContent, func() ([]domain.ContentSection, error) {
		return s.store.ListSections(ctx)
	})
	out := make(map[string]domain.Document, len(sections)+5)
	for _, key := range []string{domain.SectionHero, domain.SectionAbout, domain.SectionContact, domain.SectionFooter, domain.SectionStats} {
		out[key] = domain.DefaultSection(key)
	}
	for _, sec := range sections {
		out[sec.SectionKey] = sec.Content
	}
	return out
}

// Inquiries

func (s *Service) GetInquiries(ctx context.Context, f domain.InquiryFilter) []domain.Inquiry {
	if f.Limit <= 0 {
		f.Limit = DefaultInquiryLimit
	}
	return list(ctx, "GetInquiries", domain.TableInquiries, func() ([]domain.Inquiry, error) {
		return s.store.ListInquiries(ctx, f)
	})
}

func (s *Service) GetInquiryByID(ctx context.Context, id string) *domain.Inquiry {
	return one(ctx, "GetInquiryByID", domain.TableInquiries, func() (*domain.Inquiry, error) {
		return s.store.GetInquiry(ctx, id)
	})
}

func (s *Service) GetInquiryStats(ctx context.Context) domain.InquiryStats {
	stats := one(ctx, "GetInquiryStats", domain.TableInquiries, func() (*domain.InquiryStats, error) {
		st, err := s.store.CountInquiriesByStatus(ctx)
		if err != nil {
			return nil, err
		}
		return &st, nil
	})
	if stats == nil {
		return domain.InquiryStats{}
	}
	return *stats
}
