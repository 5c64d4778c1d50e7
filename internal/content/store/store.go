// Package store defines the persistence contract for site content. The
// postgres and memory subpackages implement it.
package store

import (
	"context"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

type Projects interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error)
	ListProjectsByRoomType(ctx context.Context, roomType string) ([]domain.Project, error)
	ListFeaturedProjects(ctx context.Context, limit int) ([]domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) error
}

type Services interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	CreateService(ctx context.Context, s *domain.Service) error
	UpdateService(ctx context.Context, s *domain.Service) error
	DeleteService(ctx context.Context, id string) error
}

type Testimonials interface {
	ListTestimonials(ctx context.Context) ([]domain.Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *domain.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *domain.Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
}

type ProcessSteps interface {
	ListProcessSteps(ctx context.Context) ([]domain.ProcessStep, error)
	GetProcessStep(ctx context.Context, id string) (*domain.ProcessStep, error)
	CreateProcessStep(ctx context.Context, s *domain.ProcessStep) error
	UpdateProcessStep(ctx context.Context, s *domain.ProcessStep) error
	DeleteProcessStep(ctx context.Context, id string) error
}

type Videos interface {
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListVideosByCategory(ctx context.Context, category string) ([]domain.Video, error)
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	CreateVideo(ctx context.Context, v *domain.Video) error
	UpdateVideo(ctx context.Context, v *domain.Video) error
	DeleteVideo(ctx context.Context, id string) error
}

// Sections is the generic key -> JSON document table.
type Sections interface {
	GetSection(ctx context.Context, key string) (*domain.ContentSection, error)
	ListSections(ctx context.Context) ([]domain.ContentSection, error)
	// UpsertSection replaces the whole document stored under key in a single
	// statement. Concurrent writers serialise; the last one wins.
	UpsertSection(ctx context.Context, s *domain.ContentSection) error
}

type Inquiries interface {
	CreateInquiry(ctx context.Context, q *domain.Inquiry) error
	GetInquiry(ctx context.Context, id string) (*domain.Inquiry, error)
	ListInquiries(ctx context.Context, f domain.InquiryFilter) ([]domain.Inquiry, error)
	CountInquiriesByStatus(ctx context.Context) (domain.InquiryStats, error)
	// SetInquiryStatus moves q from expected to q.Status and persists
	// q.RespondedAt if it is not already set. It fails with
	// domain.ErrStaleStatus when the stored status is no longer expected.
	SetInquiryStatus(ctx context.Context, q *domain.Inquiry, expected domain.InquiryStatus) error
	UpdateInquiryNotes(ctx context.Context, id, notes string) (*domain.Inquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
}

// Store bundles every table.
type Store interface {
	Projects
	Services
	Testimonials
	ProcessSteps
	Videos
	Sections
	Inquiries
	Ping(ctx context.Context) error
}
