// Package actions is the admin write path. Every action takes a raw form,
// validates it, performs exactly one store write and then drops the cached
// pages that embed the table and announces the change on the bus.
package actions

import (
	"context"
	"errors"
	"time"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/logging"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
	"github.com/atelier-interiors/cms-backend/internal/validation"
)

// Code classifies a Result for the transport layer.
type Code int

const (
	CodeOK Code = iota
	CodeInvalid
	CodeNotFound
	CodeForbidden
	CodeFailed
)

// Result is what an action reports back to the admin form.
type Result struct {
	Success bool              `json:"success"`
	ID      string            `json:"id,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Code    Code              `json:"-"`
}

func ok(id string) Result { return Result{Success: true, ID: id, Code: CodeOK} }

func invalid(details map[string]string) Result {
	return Result{Error: "validation failed", Details: details, Code: CodeInvalid}
}

// Invalidator drops cached views that embed a table.
type Invalidator interface {
	Invalidate(ctx context.Context, table domain.Table) error
}

type Actions struct {
	store     store.Store
	publisher bus.Publisher
	pages     Invalidator
	validator *validation.Validator
	now       func() time.Time
}

func New(s store.Store, publisher bus.Publisher, pages Invalidator) *Actions {
	if publisher == nil {
		publisher = bus.Disabled{}
	}
	return &Actions{
		store:     s,
		publisher: publisher,
		pages:     pages,
		validator: validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func eventFor(op domain.Op) domain.EventType {
	switch op {
	case domain.OpInsert:
		return domain.EventInsert
	case domain.OpDelete:
		return domain.EventDelete
	}
	return domain.EventUpdate
}

// write runs the shared gate around one store write: role check, form
// parse errors, schema validation, the write itself and the after-write
// fan-out. input may be nil for deletes.
func (a *Actions) write(ctx context.Context, table domain.Table, op domain.Op, f *form, input any, do func() (string, error)) Result {
	if err := domain.Authorize(domain.RoleFrom(ctx), table, op); err != nil {
		metrics.Mutations.WithLabelValues(string(table), "forbidden").Inc()
		return Result{Error: "forbidden", Code: CodeForbidden}
	}

	details := map[string]string{}
	if f != nil {
		for k, v := range f.errs {
			details[k] = v
		}
	}
	if input != nil {
		for k, v := range a.validator.Struct(input) {
			if _, seen := details[k]; !seen {
				details[k] = v
			}
		}
	}
	if len(details) > 0 {
		metrics.Mutations.WithLabelValues(string(table), "invalid").Inc()
		return invalid(details)
	}

	id, err := do()
	if err != nil {
		return a.failure(ctx, table, op, err)
	}

	metrics.Mutations.WithLabelValues(string(table), "ok").Inc()
	a.afterWrite(ctx, table, eventFor(op))
	return ok(id)
}

func (a *Actions) failure(ctx context.Context, table domain.Table, op domain.Op, err error) Result {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		metrics.Mutations.WithLabelValues(string(table), "not_found").Inc()
		return Result{Error: "not found", Code: CodeNotFound}
	case errors.Is(err, domain.ErrDuplicate) && table == domain.TableProjects:
		metrics.Mutations.WithLabelValues(string(table), "invalid").Inc()
		return invalid(map[string]string{"slug": "is already used by another project"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConstraint):
		metrics.Mutations.WithLabelValues(string(table), "invalid").Inc()
		return Result{Error: "the record violates a data constraint", Code: CodeInvalid}
	case errors.Is(err, domain.ErrForbidden):
		metrics.Mutations.WithLabelValues(string(table), "forbidden").Inc()
		return Result{Error: "forbidden", Code: CodeForbidden}
	}
	logging.New(ctx).Errorf("actions."+string(op), "table=%s error=%v", table, err)
	metrics.Mutations.WithLabelValues(string(table), "error").Inc()
	return Result{Error: "failed to save changes", Code: CodeFailed}
}

// afterWrite invalidates cached pages and publishes the change. Both are
// best-effort; the write already committed.
func (a *Actions) afterWrite(ctx context.Context, table domain.Table, ev domain.EventType) {
	AfterWrite(ctx, a.pages, a.publisher, table, ev, a.now())
}

// AfterWrite is the post-commit fan-out shared with other write paths.
func AfterWrite(ctx context.Context, pages Invalidator, publisher bus.Publisher, table domain.Table, ev domain.EventType, at time.Time) {
	log := logging.New(ctx)
	if pages != nil {
		if err := pages.Invalidate(ctx, table); err != nil {
			log.Warnf("actions.invalidate", "table=%s error=%v", table, err)
		}
	}
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, bus.Event{Table: table, EventType: ev, At: at})
	switch {
	case err == nil:
		metrics.EventsPublished.WithLabelValues(string(table), "ok").Inc()
	case errors.Is(err, bus.ErrUnavailable):
		metrics.EventsPublished.WithLabelValues(string(table), "unavailable").Inc()
		log.Warnf("actions.publish", "table=%s error=%v", table, err)
	default:
		metrics.EventsPublished.WithLabelValues(string(table), "error").Inc()
		log.Errorf("actions.publish", "table=%s error=%v", table, err)
	}
}
