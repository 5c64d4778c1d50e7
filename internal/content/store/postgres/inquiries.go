package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const inquiryCols = `id, name, phone, coalesce(email, ''), coalesce(project_type, ''), message,
       source, status, notes, responded_at, created_at, updated_at`

func scanInquiry(row scanner) (domain.Inquiry, error) {
	var q domain.Inquiry
	var responded sql.NullTime
	err := row.Scan(&q.ID, &q.Name, &q.Phone, &q.Email, &q.ProjectType, &q.Message,
		&q.Source, &q.Status, &q.Notes, &responded, &q.CreatedAt, &q.UpdatedAt)
	if responded.Valid {
		t := responded.Time
		q.RespondedAt = &t
	}
	return q, err
}

func (s *Store) CreateInquiry(ctx context.Context, q *domain.Inquiry) error {
	q.ID = uuid.New().String()
	if q.Status == "" {
		q.Status = domain.StatusNew
	}
	err := s.db.QueryRowContext(ctx, `
insert into inquiries (id, name, phone, email, project_type, message, source, status)
values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7, $8)
returning created_at, updated_at;
`, q.ID, q.Name, q.Phone, q.Email, q.ProjectType, q.Message, string(q.Source), string(q.Status),
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	return classify(err)
}

func (s *Store) GetInquiry(ctx context.Context, id string) (*domain.Inquiry, error) {
	q, err := scanInquiry(s.db.QueryRowContext(ctx, `select `+inquiryCols+` from inquiries where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &q, nil
}

func (s *Store) ListInquiries(ctx context.Context, f domain.InquiryFilter) ([]domain.Inquiry, error) {
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, string(f.Source))
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ilike $%d or phone ilike $%d or email ilike $%d)", n, n, n))
	}

	q := `select ` + inquiryCols + ` from inquiries`
	if len(where) > 0 {
		q += " where " + strings.Join(where, " and ")
	}
	q += " order by created_at desc"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" limit $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Inquiry, 0, 16)
	for rows.Next() {
		item, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) CountInquiriesByStatus(ctx context.Context) (domain.InquiryStats, error) {
	var stats domain.InquiryStats
	rows, err := s.db.QueryContext(ctx, `select status, count(*) from inquiries group by status`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		stats.Add(domain.InquiryStatus(status), n)
	}
	return stats, rows.Err()
}

// SetInquiryStatus is a compare-and-set on status. responded_at is only ever
// filled in, never overwritten.
func (s *Store) SetInquiryStatus(ctx context.Context, q *domain.Inquiry, expected domain.InquiryStatus) error {
	var responded sql.NullTime
	if q.RespondedAt != nil {
		responded = sql.NullTime{Time: *q.RespondedAt, Valid: true}
	}
	row := s.db.QueryRowContext(ctx, `
update inquiries
set status = $2,
    responded_at = coalesce(responded_at, $4),
    updated_at = now()
where id = $1 and status = $3
returning `+inquiryCols+`;
`, q.ID, string(q.Status), string(expected), responded)
	got, err := scanInquiry(row)
	if err == sql.ErrNoRows {
		if _, gerr := s.GetInquiry(ctx, q.ID); gerr != nil {
			return gerr
		}
		return domain.ErrStaleStatus
	}
	if err != nil {
		return classifyID(err)
	}
	*q = got
	return nil
}

func (s *Store) UpdateInquiryNotes(ctx context.Context, id, notes string) (*domain.Inquiry, error) {
	q, err := scanInquiry(s.db.QueryRowContext(ctx, `
update inquiries
set notes = $2, updated_at = now()
where id = $1
returning `+inquiryCols+`;
`, id, notes))
	if err != nil {
		return nil, classifyID(err)
	}
	return &q, nil
}

func (s *Store) DeleteInquiry(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from inquiries where id = $1`, id)
}
