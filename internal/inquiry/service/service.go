// Package service runs the inquiry lifecycle: public submission, admin status
// transitions, notes and hard delete.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/messaging"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
	"github.com/atelier-interiors/cms-backend/internal/validation"
)

const maxNotesLength = 10000

var ErrNotesTooLong = fmt.Errorf("notes must be at most %d characters", maxNotesLength)

// SubmitResult is the public form response. ChatURL opens a prefilled chat
// with the studio when a number is configured.
type SubmitResult struct {
	actions.Result
	ChatURL string `json:"chat_url,omitempty"`
}

type submission struct {
	Name        string `form:"name" validate:"required,max=120"`
	Phone       string `form:"phone" validate:"required,phone"`
	Email       string `form:"email" validate:"omitempty,max=200,email"`
	ProjectType string `form:"project_type" validate:"max=60"`
	Message     string `form:"message" validate:"max=5000"`
	Source      string `form:"source" validate:"oneof=contact_form inquiry_modal project_page website"`
}

type Service struct {
	store     store.Inquiries
	publisher bus.Publisher
	pages     actions.Invalidator
	composer  *messaging.Composer
	validator *validation.Validator
	now       func() time.Time
}

func New(s store.Inquiries, publisher bus.Publisher, pages actions.Invalidator, composer *messaging.Composer) *Service {
	if composer == nil {
		composer = messaging.NewComposer("")
	}
	return &Service{
		store:     s,
		publisher: publisher,
		pages:     pages,
		composer:  composer,
		validator: validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) authorize(ctx context.Context, op domain.Op) error {
	return domain.Authorize(domain.RoleFrom(ctx), domain.TableInquiries, op)
}

func (s *Service) changed(ctx context.Context, ev domain.EventType) {
	actions.AfterWrite(ctx, s.pages, s.publisher, domain.TableInquiries, ev, s.now())
}

// Submit records a lead from the public site. The status always starts at
// new regardless of what the form carries.
func (s *Service) Submit(ctx context.Context, values url.Values) SubmitResult {
	if err := s.authorize(ctx, domain.OpInsert); err != nil {
		return SubmitResult{Result: actions.Result{Error: "forbidden", Code: actions.CodeForbidden}}
	}

	in := submission{
		Name:        strings.TrimSpace(values.Get("name")),
		Phone:       strings.TrimSpace(values.Get("phone")),
		Email:       strings.TrimSpace(values.Get("email")),
		ProjectType: strings.TrimSpace(values.Get("project_type")),
		Message:     strings.TrimSpace(values.Get("message")),
		Source:      strings.TrimSpace(values.Get("source")),
	}
	if in.Source == "" {
		in.Source = string(domain.SourceWebsite)
	}
	if details := s.validator.Struct(in); details != nil {
		metrics.Mutations.WithLabelValues(string(domain.TableInquiries), "invalid").Inc()
		return SubmitResult{Result: actions.Result{Error: "validation failed", Details: details, Code: actions.CodeInvalid}}
	}

	q := domain.Inquiry{
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		ProjectType: in.ProjectType,
		Message:     in.Message,
		Source:      domain.InquirySource(in.Source),
		Status:      domain.StatusNew,
	}
	if err := s.store.CreateInquiry(ctx, &q); err != nil {
		logging.New(ctx).Error("inquiry.submit", err)
		metrics.Mutations.WithLabelValues(string(domain.TableInquiries), "error").Inc()
		return SubmitResult{Result: actions.Result{Error: "failed to submit inquiry", Code: actions.CodeFailed}}
	}
	metrics.Mutations.WithLabelValues(string(domain.TableInquiries), "ok").Inc()
	s.changed(ctx, domain.EventInsert)

	res := SubmitResult{Result: actions.Result{Success: true, ID: q.ID, Code: actions.CodeOK}}
	chat, err := s.composer.ChatURL(q)
	if err != nil {
		logging.New(ctx).Warnf("inquiry.submit", "chat_url error=%v", err)
	}
	res.ChatURL = chat
	return res
}

// Transition moves inquiry id to status. Moving to the current status is a
// no-op; anything outside the lifecycle table fails with
// domain.ErrInvalidTransition.
func (s *Service) Transition(ctx context.Context, id, status string) (*domain.Inquiry, error) {
	if err := s.authorize(ctx, domain.OpUpdate); err != nil {
		return nil, err
	}
	to, err := domain.ParseInquiryStatus(status)
	if err != nil {
		return nil, err
	}
	q, err := s.store.GetInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == to {
		return q, nil
	}

	expected := q.Status
	if err := q.Transition(to, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.SetInquiryStatus(ctx, q, expected); err != nil {
		if !errors.Is(err, domain.ErrStaleStatus) && !errors.Is(err, domain.ErrNotFound) {
			logging.New(ctx).Error("inquiry.transition", err)
		}
		return nil, err
	}

	logging.New(ctx).Infof("inquiry.transition", "id=%s from=%s to=%s", id, expected, to)
	s.changed(ctx, domain.EventUpdate)
	return q, nil
}

// UpdateNotes replaces the admin notes without touching status.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*domain.Inquiry, error) {
	if err := s.authorize(ctx, domain.OpUpdate); err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}
	q, err := s.store.UpdateInquiryNotes(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, domain.EventUpdate)
	return q, nil
}

// Delete removes the inquiry permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx, domain.OpDelete); err != nil {
		return err
	}
	if err := s.store.DeleteInquiry(ctx, id); err != nil {
		return err
	}
	logging.New(ctx).Infof("inquiry.delete", "id=%s", id)
	s.changed(ctx, domain.EventDelete)
	return nil
}
