package service

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/content/store/memory"
	"github.com/atelier-interiors/cms-backend/internal/messaging"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []bus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e bus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func adminCtx() context.Context {
	return domain.WithRole(context.Background(), domain.RoleAdmin)
}

func newService(t *testing.T, st store.Inquiries) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := New(st, pub, nil, messaging.NewComposer("+1 555 010 0100"))
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return svc, pub
}

func submit(t *testing.T, svc *Service) string {
	t.Helper()
	res := svc.Submit(context.Background(), url.Values{
		"name":    {"Mira"},
		"phone":   {"+1 555 010 0199"},
		"message": {"Kitchen refresh"},
		"source":  {"project_page"},
		"status":  {"converted"},
	})
	require.True(t, res.Success, res.Details)
	return res.ID
}

func TestSubmit(t *testing.T) {
	st := memory.New()
	svc, pub := newService(t, st)

	id := submit(t, svc)
	q, err := st.GetInquiry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, q.Status)
	assert.Equal(t, domain.SourceProjectPage, q.Source)
	assert.Nil(t, q.RespondedAt)
	assert.Equal(t, 1, pub.count())
	assert.Equal(t, domain.TableInquiries, pub.events[0].Table)
}

func TestSubmit_Validation(t *testing.T) {
	st := memory.New()
	svc, pub := newService(t, st)

	res := svc.Submit(context.Background(), url.Values{"name": {"Mira"}, "email": {"nope"}, "source": {"billboard"}})
	assert.Equal(t, actions.CodeInvalid, res.Code)
	assert.Equal(t, "is required", res.Details["phone"])
	assert.Contains(t, res.Details, "email")
	assert.Contains(t, res.Details, "source")
	assert.Equal(t, 0, pub.count())

	res = svc.Submit(context.Background(), url.Values{"name": {"Sam"}, "phone": {"5550100"}})
	require.True(t, res.Success)
	q, err := st.GetInquiry(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceWebsite, q.Source)
	assert.Contains(t, res.ChatURL, "https://wa.me/15550100100?text=")
}

func TestTransition_RespondedAtSetOnce(t *testing.T) {
	st := memory.New()
	svc, _ := newService(t, st)
	ctx := adminCtx()
	id := submit(t, svc)

	q, err := svc.Transition(ctx, id, "contacted")
	require.NoError(t, err)
	require.NotNil(t, q.RespondedAt)
	first := *q.RespondedAt

	q, err = svc.Transition(ctx, id, "contacted")
	require.NoError(t, err)
	assert.Equal(t, first, *q.RespondedAt)

	q, err = svc.Transition(ctx, id, "converted")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConverted, q.Status)
	assert.Equal(t, first, *q.RespondedAt)

	_, err = svc.Transition(ctx, id, "contacted")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := st.GetInquiry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first, *stored.RespondedAt)
}

func TestTransition_CloseWithoutResponse(t *testing.T) {
	st := memory.New()
	svc, pub := newService(t, st)
	id := submit(t, svc)

	q, err := svc.Transition(adminCtx(), id, "closed")
	require.NoError(t, err)
	assert.Nil(t, q.RespondedAt)
	assert.Equal(t, 2, pub.count())

	_, err = svc.Transition(adminCtx(), id, "new")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_Errors(t *testing.T) {
	st := memory.New()
	svc, _ := newService(t, st)
	id := submit(t, svc)

	_, err := svc.Transition(context.Background(), id, "contacted")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Transition(adminCtx(), id, "won")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Transition(adminCtx(), "missing", "contacted")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// racingStore lets another admin move the inquiry between our read and write.
type racingStore struct {
	*memory.Store
	once sync.Once
}

func (r *racingStore) GetInquiry(ctx context.Context, id string) (*domain.Inquiry, error) {
	q, err := r.Store.GetInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	r.once.Do(func() {
		other := *q
		other.Status = domain.StatusClosed
		_ = r.Store.SetInquiryStatus(ctx, &other, domain.StatusNew)
	})
	return q, nil
}

func TestTransition_ConcurrentChangeIsStale(t *testing.T) {
	st := &racingStore{Store: memory.New()}
	svc, _ := newService(t, st)
	id := submit(t, svc)

	_, err := svc.Transition(adminCtx(), id, "contacted")
	assert.ErrorIs(t, err, domain.ErrStaleStatus)

	stored, err := st.Store.GetInquiry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, stored.Status)
	assert.Nil(t, stored.RespondedAt)
}

func TestUpdateNotes(t *testing.T) {
	st := memory.New()
	svc, _ := newService(t, st)
	id := submit(t, svc)

	_, err := svc.Transition(adminCtx(), id, "contacted")
	require.NoError(t, err)

	q, err := svc.UpdateNotes(adminCtx(), id, "  Called, sending quote Friday  ")
	require.NoError(t, err)
	assert.Equal(t, "Called, sending quote Friday", q.Notes)
	assert.Equal(t, domain.StatusContacted, q.Status)

	_, err = svc.UpdateNotes(adminCtx(), id, string(make([]byte, maxNotesLength+1)))
	assert.ErrorIs(t, err, ErrNotesTooLong)

	_, err = svc.UpdateNotes(context.Background(), id, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete(t *testing.T) {
	st := memory.New()
	svc, pub := newService(t, st)
	id := submit(t, svc)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrForbidden)
	require.NoError(t, svc.Delete(adminCtx(), id))
	assert.Equal(t, domain.EventDelete, pub.events[len(pub.events)-1].EventType)

	_, err := st.GetInquiry(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(adminCtx(), id), domain.ErrNotFound)
}
