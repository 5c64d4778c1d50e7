// Package pages assembles the public page bundles and keeps them cached.
package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	"github.com/atelier-interiors/cms-backend/internal/site/pagecache"
)

var ErrUnknownPage = errors.New("unknown page")

// Bundle is everything one public page renders, keyed by block name.
type Bundle map[string]any

type Service struct {
	query *query.Service
	cache pagecache.Cache
}

func New(q *query.Service, cache pagecache.Cache) *Service {
	if cache == nil {
		cache = pagecache.Nop{}
	}
	return &Service{query: q, cache: cache}
}

// Normalize maps a request path onto its canonical page path.
func Normalize(path string) string {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return strings.ToLower(path)
}

// Render returns the JSON bundle for path, served from cache when possible.
func (s *Service) Render(ctx context.Context, path string) ([]byte, error) {
	path = Normalize(path)
	log := logging.New(ctx)

	if body, ok, err := s.cache.Get(ctx, path); err != nil {
		log.Warnf("pages.render", "cache_get path=%s error=%v", path, err)
	} else if ok {
		metrics.PageCache.WithLabelValues("hit").Inc()
		return body, nil
	}
	metrics.PageCache.WithLabelValues("miss").Inc()

	// The generation is read before any row so an invalidation that lands
	// while the bundle is built makes the Set below a no-op.
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		log.Warnf("pages.render", "cache_generation path=%s error=%v", path, genErr)
	}

	bundle, err := s.Build(domain.WithRole(ctx, domain.RolePublic), path)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encode page %s: %w", path, err)
	}
	if genErr == nil {
		stored, err := s.cache.Set(ctx, path, body, gen)
		switch {
		case err != nil:
			log.Warnf("pages.render", "cache_set path=%s error=%v", path, err)
		case !stored:
			metrics.PageCache.WithLabelValues("stale_fill").Inc()
		}
	}
	return body, nil
}

// Build assembles path from the query layer without touching the cache.
func (s *Service) Build(ctx context.Context, path string) (Bundle, error) {
	path = Normalize(path)
	q := s.query

	b := Bundle{
		"path":    path,
		"contact": q.GetSiteContent(ctx, domain.SectionContact).Content,
		"footer":  q.GetSiteContent(ctx, domain.SectionFooter).Content,
	}

	switch path {
	case PathHome:
		b["hero"] = q.GetSiteContent(ctx, domain.SectionHero).Content
		b["stats"] = q.GetSiteContent(ctx, domain.SectionStats).Content
		b["featured_projects"] = q.GetFeaturedProjects(ctx, 0)
		b["services"] = q.GetServices(ctx)
		b["process_steps"] = q.GetProcessSteps(ctx)
		b["testimonials"] = q.GetFeaturedTestimonials(ctx)
		b["videos"] = featuredVideos(q.GetVideos(ctx))
	case PathProjects:
		b["projects"] = q.GetProjects(ctx)
	case PathServices:
		b["services"] = q.GetServices(ctx)
		b["process_steps"] = q.GetProcessSteps(ctx)
	case PathAbout:
		b["about"] = q.GetSiteContent(ctx, domain.SectionAbout).Content
		b["stats"] = q.GetSiteContent(ctx, domain.SectionStats).Content
		b["testimonials"] = q.GetTestimonials(ctx)
	case PathContact:
	case PathVideos:
		b["videos"] = q.GetVideos(ctx)
	default:
		slug, ok := strings.CutPrefix(path, projectPrefix)
		if !ok || slug == "" || strings.Contains(slug, "/") {
			return nil, ErrUnknownPage
		}
		p := q.GetProjectBySlug(ctx, slug)
		if p == nil {
			return nil, ErrUnknownPage
		}
		b["project"] = p
		b["related"] = q.GetRelatedProjects(ctx, p.Slug, p.RoomType, p.Style, 0)
		b["testimonials"] = testimonialsFor(q.GetTestimonials(ctx), p.Slug)
	}
	return b, nil
}

// Invalidate drops every cached page that embeds table.
func (s *Service) Invalidate(ctx context.Context, table domain.Table) error {
	patterns := PathsFor(table)
	if len(patterns) == 0 {
		return nil
	}
	n, err := s.cache.Invalidate(ctx, patterns...)
	if err != nil {
		return fmt.Errorf("invalidate %s pages: %w", table, err)
	}
	logging.New(ctx).Infof("pages.invalidate", "table=%s patterns=%s removed=%d", table, strings.Join(patterns, ","), n)
	return nil
}

func featuredVideos(all []domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(all))
	for _, v := range all {
		if v.Featured {
			out = append(out, v)
		}
	}
	return out
}

func testimonialsFor(all []domain.Testimonial, slug string) []domain.Testimonial {
	out := make([]domain.Testimonial, 0)
	for _, t := range all {
		if t.ProjectSlug == slug {
			out = append(out, t)
		}
	}
	return out
}
