// Package memory is an in-process implementation of store.Store used by tests
// and by STORE_DRIVER=memory for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every table in maps guarded by one mutex, which gives each
// write the same all-or-nothing behaviour as a single SQL statement.
type Store struct {
	mu sync.RWMutex

	projects     map[string]domain.Project
	services     map[string]domain.Service
	testimonials map[string]domain.Testimonial
	steps        map[string]domain.ProcessStep
	videos       map[string]domain.Video
	sections     map[string]domain.ContentSection
	inquiries    map[string]domain.Inquiry

	readErr  error
	writeErr error

	Now func() time.Time
}

func New() *Store {
	return &Store{
		projects:     make(map[string]domain.Project),
		services:     make(map[string]domain.Service),
		testimonials: make(map[string]domain.Testimonial),
		steps:        make(map[string]domain.ProcessStep),
		videos:       make(map[string]domain.Video),
		sections:     make(map[string]domain.ContentSection),
		inquiries:    make(map[string]domain.Inquiry),
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// FailReads makes every read return err until called again with nil.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// FailWrites makes every write return err until called again with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readErr
}

func newID() string { return uuid.New().String() }

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneDoc(d domain.Document) domain.Document {
	out := make(domain.Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container shapes a JSON document can hold.
func cloneValue(v any) any {
	switch t := v.(type) {
	case domain.Document:
		return cloneDoc(t)
	case map[string]any:
		return map[string]any(cloneDoc(t))
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = cloneDoc(e)
		}
		return out
	case []string:
		return cloneStrings(t)
	}
	return v
}

func byOrder[T any](items []T, order func(T) int, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		oi, oj := order(items[i]), order(items[j])
		if oi != oj {
			return oi < oj
		}
		return created(items[i]).After(created(items[j]))
	})
}

// Projects

func copyProject(p domain.Project) domain.Project {
	p.Images = cloneStrings(p.Images)
	p.Features = cloneStrings(p.Features)
	return p
}

func (s *Store) sortedProjects(keep func(domain.Project) bool) []domain.Project {
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if keep == nil || keep(p) {
			out = append(out, copyProject(p))
		}
	}
	byOrder(out, func(p domain.Project) int { return p.DisplayOrder }, func(p domain.Project) time.Time { return p.CreatedAt })
	return out
}

func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.sortedProjects(nil), nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyProject(p)
	return &cp, nil
}

func (s *Store) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	for _, p := range s.projects {
		if p.Slug == slug {
			cp := copyProject(p)
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListProjectsByRoomType(ctx context.Context, roomType string) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.sortedProjects(func(p domain.Project) bool { return strings.EqualFold(p.RoomType, roomType) }), nil
}

func (s *Store) ListFeaturedProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := s.sortedProjects(func(p domain.Project) bool { return p.Featured })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) slugTaken(slug, exceptID string) bool {
	for id, p := range s.projects {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if s.slugTaken(p.Slug, "") {
		return domain.ErrDuplicate
	}
	now := s.Now()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = now, now
	s.projects[p.ID] = copyProject(*p)
	return nil
}

func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	old, ok := s.projects[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if s.slugTaken(p.Slug, p.ID) {
		return domain.ErrDuplicate
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = s.Now()
	s.projects[p.ID] = copyProject(*p)
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// Services

func copyService(v domain.Service) domain.Service {
	v.Features = cloneStrings(v.Features)
	v.Deliverables = cloneStrings(v.Deliverables)
	return v
}

func (s *Store) ListServices(ctx context.Context) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]domain.Service, 0, len(s.services))
	for _, v := range s.services {
		out = append(out, copyService(v))
	}
	byOrder(out, func(v domain.Service) int { return v.DisplayOrder }, func(v domain.Service) time.Time { return v.CreatedAt })
	return out, nil
}

func (s *Store) GetService(ctx context.Context, id string) (*domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyService(v)
	return &cp, nil
}

func (s *Store) CreateService(ctx context.Context, v *domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	now := s.Now()
	v.ID = newID()
	v.CreatedAt, v.UpdatedAt = now, now
	s.services[v.ID] = copyService(*v)
	return nil
}

func (s *Store) UpdateService(ctx context.Context, v *domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	old, ok := s.services[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	v.UpdatedAt = s.Now()
	s.services[v.ID] = copyService(*v)
	return nil
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.services, id)
	return nil
}

// Testimonials

func (s *Store) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]domain.Testimonial, 0, len(s.testimonials))
	for _, v := range s.testimonials {
		out = append(out, v)
	}
	byOrder(out, func(v domain.Testimonial) int { return v.DisplayOrder }, func(v domain.Testimonial) time.Time { return v.CreatedAt })
	return out, nil
}

func (s *Store) GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.testimonials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, v *domain.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	now := s.Now()
	v.ID = newID()
	v.CreatedAt, v.UpdatedAt = now, now
	s.testimonials[v.ID] = *v
	return nil
}

func (s *Store) UpdateTestimonial(ctx context.Context, v *domain.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	old, ok := s.testimonials[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	v.UpdatedAt = s.Now()
	s.testimonials[v.ID] = *v
	return nil
}

func (s *Store) DeleteTestimonial(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.testimonials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.testimonials, id)
	return nil
}

// Process steps

func (s *Store) ListProcessSteps(ctx context.Context) ([]domain.ProcessStep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]domain.ProcessStep, 0, len(s.steps))
	for _, v := range s.steps {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].StepNumber < out[j].StepNumber
	})
	return out, nil
}

func (s *Store) GetProcessStep(ctx context.Context, id string) (*domain.ProcessStep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.steps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (s *Store) CreateProcessStep(ctx context.Context, v *domain.ProcessStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	now := s.Now()
	v.ID = newID()
	v.CreatedAt, v.UpdatedAt = now, now
	s.steps[v.ID] = *v
	return nil
}

func (s *Store) UpdateProcessStep(ctx context.Context, v *domain.ProcessStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	old, ok := s.steps[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	v.UpdatedAt = s.Now()
	s.steps[v.ID] = *v
	return nil
}

func (s *Store) DeleteProcessStep(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.steps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.steps, id)
	return nil
}

// Videos

func (s *Store) sortedVideos(keep func(domain.Video) bool) []domain.Video {
	out := make([]domain.Video, 0, len(s.videos))
	for _, v := range s.videos {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	byOrder(out, func(v domain.Video) int { return v.DisplayOrder }, func(v domain.Video) time.Time { return v.CreatedAt })
	return out
}

func (s *Store) ListVideos(ctx context.Context) ([]domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.sortedVideos(nil), nil
}

func (s *Store) ListVideosByCategory(ctx context.Context, category string) ([]domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.sortedVideos(func(v domain.Video) bool { return strings.EqualFold(v.Category, category) }), nil
}

func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (s *Store) CreateVideo(ctx context.Context, v *domain.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	now := s.Now()
	v.ID = newID()
	v.CreatedAt, v.UpdatedAt = now, now
	s.videos[v.ID] = *v
	return nil
}

func (s *Store) UpdateVideo(ctx context.Context, v *domain.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	old, ok := s.videos[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	v.UpdatedAt = s.Now()
	s.videos[v.ID] = *v
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

// Sections

func (s *Store) GetSection(ctx context.Context, key string) (*domain.ContentSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	sec, ok := s.sections[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sec.Content = cloneDoc(sec.Content)
	return &sec, nil
}

func (s *Store) ListSections(ctx context.Context) ([]domain.ContentSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]domain.ContentSection, 0, len(s.sections))
	for _, sec := range s.sections {
		sec.Content = cloneDoc(sec.Content)
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectionKey < out[j].SectionKey })
	return out, nil
}

func (s *Store) UpsertSection(ctx context.Context, sec *domain.ContentSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	sec.UpdatedAt = s.Now()
	s.sections[sec.SectionKey] = domain.ContentSection{
		SectionKey: sec.SectionKey,
		Content:    cloneDoc(sec.Content),
		UpdatedAt:  sec.UpdatedAt,
	}
	return nil
}

// Inquiries

func copyInquiry(q domain.Inquiry) domain.Inquiry {
	if q.RespondedAt != nil {
		t := *q.RespondedAt
		q.RespondedAt = &t
	}
	return q
}

func (s *Store) CreateInquiry(ctx context.Context, q *domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if !q.Source.Valid() {
		return domain.ErrConstraint
	}
	if q.Status == "" {
		q.Status = domain.StatusNew
	}
	now := s.Now()
	q.ID = newID()
	q.CreatedAt, q.UpdatedAt = now, now
	s.inquiries[q.ID] = copyInquiry(*q)
	return nil
}

func (s *Store) GetInquiry(ctx context.Context, id string) (*domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	q, ok := s.inquiries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyInquiry(q)
	return &cp, nil
}

func (s *Store) ListInquiries(ctx context.Context, f domain.InquiryFilter) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Inquiry, 0, len(s.inquiries))
	for _, q := range s.inquiries {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if f.Source != "" && q.Source != f.Source {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(q.Name), search) &&
			!strings.Contains(q.Phone, search) &&
			!strings.Contains(strings.ToLower(q.Email), search) {
			continue
		}
		out = append(out, copyInquiry(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CountInquiriesByStatus(ctx context.Context) (domain.InquiryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.InquiryStats
	if s.readErr != nil {
		return stats, s.readErr
	}
	for _, q := range s.inquiries {
		stats.Add(q.Status, 1)
	}
	return stats, nil
}

func (s *Store) SetInquiryStatus(ctx context.Context, q *domain.Inquiry, expected domain.InquiryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	cur, ok := s.inquiries[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != expected {
		return domain.ErrStaleStatus
	}
	cur.Status = q.Status
	if cur.RespondedAt == nil && q.RespondedAt != nil {
		t := *q.RespondedAt
		cur.RespondedAt = &t
	}
	cur.UpdatedAt = s.Now()
	s.inquiries[q.ID] = cur
	*q = copyInquiry(cur)
	return nil
}

func (s *Store) UpdateInquiryNotes(ctx context.Context, id, notes string) (*domain.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	cur, ok := s.inquiries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cur.Notes = notes
	cur.UpdatedAt = s.Now()
	s.inquiries[id] = cur
	cp := copyInquiry(cur)
	return &cp, nil
}

func (s *Store) DeleteInquiry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.inquiries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.inquiries, id)
	return nil
}
