package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

var projectColumns = []string{
	"id", "slug", "title", "description", "room_type", "style", "location", "area",
	"year", "duration", "cover_image", "images", "features", "featured", "display_order",
	"created_at", "updated_at",
}

var inquiryColumns = []string{
	"id", "name", "phone", "email", "project_type", "message",
	"source", "status", "notes", "responded_at", "created_at", "updated_at",
}

func TestUpsertSection(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	t.Run("writes whole document keyed on section_key", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`insert into site_content`).
			WithArgs("hero", `{"cta_text":"Book","title":"Hi"}`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		sec := &domain.ContentSection{SectionKey: "hero", Content: domain.Document{"title": "Hi", "cta_text": "Book"}}
		require.NoError(t, s.UpsertSection(ctx, sec))
		assert.Equal(t, now, sec.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil document stored as empty object", func(t *testing.T) {
		mock.ExpectQuery(`insert into site_content`).
			WithArgs("footer", `{}`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

		require.NoError(t, s.UpsertSection(ctx, &domain.ContentSection{SectionKey: "footer"}))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetSection(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	t.Run("decodes json content", func(t *testing.T) {
		mock.ExpectQuery(`select section_key, content::text, updated_at`).
			WithArgs("stats").
			WillReturnRows(sqlmock.NewRows([]string{"section_key", "content", "updated_at"}).
				AddRow("stats", `{"awards":3}`, time.Now()))

		sec, err := s.GetSection(ctx, "stats")
		require.NoError(t, err)
		assert.Equal(t, float64(3), sec.Content["awards"])
	})

	t.Run("missing key maps to not found", func(t *testing.T) {
		mock.ExpectQuery(`select section_key, content::text, updated_at`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetSection(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProject(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	t.Run("inserts and returns timestamps", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`insert into projects`).
			WithArgs(sqlmock.AnyArg(), "loft-42", "Loft 42", "", "Living Spaces", "Modern", "", "",
				sqlmock.AnyArg(), "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), false, 0).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		p := &domain.Project{Slug: "loft-42", Title: "Loft 42", RoomType: "Living Spaces", Style: "Modern"}
		require.NoError(t, s.CreateProject(ctx, p))
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, now, p.CreatedAt)
	})

	t.Run("unique violation surfaces as duplicate (pgx)", func(t *testing.T) {
		mock.ExpectQuery(`insert into projects`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "projects_slug_key"})

		err := s.CreateProject(ctx, &domain.Project{Slug: "loft-42", Title: "Dup"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("check violation surfaces as constraint (lib/pq)", func(t *testing.T) {
		mock.ExpectQuery(`insert into projects`).
			WillReturnError(&pq.Error{Code: "23514"})

		err := s.CreateProject(ctx, &domain.Project{Slug: "Bad Slug", Title: "x"})
		assert.ErrorIs(t, err, domain.ErrConstraint)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectBySlug(t *testing.T) {
	s, mock := setupStore(t)
	now := time.Now()

	mock.ExpectQuery(`from projects where slug = \$1`).
		WithArgs("loft-42").
		WillReturnRows(sqlmock.NewRows(projectColumns).AddRow(
			"p1", "loft-42", "Loft 42", "desc", "Living Spaces", "Modern", "Berlin", "120 sqm",
			int64(2024), "3 months", "cover.jpg", "{a.jpg,b.jpg}", "{Oak floors}", true, 1,
			now, now,
		))

	p, err := s.GetProjectBySlug(context.Background(), "loft-42")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{"Oak floors"}, p.Features)
	assert.Equal(t, 2024, p.Year)
	assert.True(t, p.Featured)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects_EmptyArrays(t *testing.T) {
	s, mock := setupStore(t)
	now := time.Now()

	mock.ExpectQuery(`from projects`).
		WillReturnRows(sqlmock.NewRows(projectColumns).AddRow(
			"p1", "a", "A", "", "Kitchen", "", "", "", int64(0), "", "", "{}", nil, false, 0, now, now,
		))

	items, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].Images)
	assert.NotNil(t, items[0].Features)
	assert.Empty(t, items[0].Features)
}

func TestDeleteProject(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()

	mock.ExpectExec(`delete from projects where id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.DeleteProject(ctx, "p1"))

	mock.ExpectExec(`delete from projects where id = \$1`).
		WithArgs("p2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.DeleteProject(ctx, "p2"), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedID_IsNotFound(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()
	badUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "bogus"`}

	mock.ExpectQuery(`from inquiries where id = \$1`).
		WithArgs("bogus").
		WillReturnError(badUUID)
	_, err := s.GetInquiry(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrConstraint)

	mock.ExpectExec(`delete from projects where id = \$1`).
		WithArgs("bogus").
		WillReturnError(badUUID)
	err = s.DeleteProject(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrConstraint)

	mock.ExpectQuery(`update inquiries`).
		WithArgs("bogus", "contacted", "new", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "22P02"})
	q := &domain.Inquiry{ID: "bogus", Status: domain.StatusContacted}
	assert.ErrorIs(t, s.SetInquiryStatus(ctx, q, domain.StatusNew), domain.ErrNotFound)

	mock.ExpectQuery(`update projects`).
		WillReturnError(badUUID)
	assert.ErrorIs(t, s.UpdateProject(ctx, &domain.Project{ID: "bogus", Slug: "loft"}), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetInquiryStatus(t *testing.T) {
	s, mock := setupStore(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("moves status and keeps responded_at", func(t *testing.T) {
		mock.ExpectQuery(`update inquiries`).
			WithArgs("q1", "contacted", "new", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(inquiryColumns).AddRow(
				"q1", "Ana", "+100", "", "", "hi", "website", "contacted", "", now, now, now,
			))

		q := &domain.Inquiry{ID: "q1", Status: domain.StatusContacted, RespondedAt: &now}
		require.NoError(t, s.SetInquiryStatus(ctx, q, domain.StatusNew))
		assert.Equal(t, domain.StatusContacted, q.Status)
		require.NotNil(t, q.RespondedAt)
	})

	t.Run("stale expected status", func(t *testing.T) {
		mock.ExpectQuery(`update inquiries`).
			WithArgs("q1", "closed", "new", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(inquiryColumns))
		mock.ExpectQuery(`from inquiries where id = \$1`).
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(inquiryColumns).AddRow(
				"q1", "Ana", "+100", "", "", "hi", "website", "contacted", "", now, now, now,
			))

		q := &domain.Inquiry{ID: "q1", Status: domain.StatusClosed}
		assert.ErrorIs(t, s.SetInquiryStatus(ctx, q, domain.StatusNew), domain.ErrStaleStatus)
	})

	t.Run("unknown inquiry", func(t *testing.T) {
		mock.ExpectQuery(`update inquiries`).
			WillReturnRows(sqlmock.NewRows(inquiryColumns))
		mock.ExpectQuery(`from inquiries where id = \$1`).
			WithArgs("zz").
			WillReturnError(sql.ErrNoRows)

		q := &domain.Inquiry{ID: "zz", Status: domain.StatusClosed}
		assert.ErrorIs(t, s.SetInquiryStatus(ctx, q, domain.StatusNew), domain.ErrNotFound)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListInquiries_Filters(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`where status = \$1 and source = \$2 order by created_at desc limit \$3`).
		WithArgs("new", "contact_form", 20).
		WillReturnRows(sqlmock.NewRows(inquiryColumns))

	items, err := s.ListInquiries(context.Background(), domain.InquiryFilter{
		Status: domain.StatusNew, Source: domain.SourceContactForm, Limit: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountInquiriesByStatus(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`select status, count\(\*\) from inquiries group by status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("new", 4).
			AddRow("contacted", 2).
			AddRow("closed", 1))

	stats, err := s.CountInquiriesByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStats{Total: 7, New: 4, Contacted: 2, Closed: 1}, stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
