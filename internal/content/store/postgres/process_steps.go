package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const stepCols = `id, step_number, title, description, icon, duration, display_order, created_at, updated_at`

func scanStep(row scanner) (domain.ProcessStep, error) {
	var v domain.ProcessStep
	err := row.Scan(&v.ID, &v.StepNumber, &v.Title, &v.Description, &v.Icon, &v.Duration,
		&v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) ListProcessSteps(ctx context.Context) ([]domain.ProcessStep, error) {
	rows, err := s.db.QueryContext(ctx, `
select `+stepCols+`
from process_steps
order by display_order asc, step_number asc;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProcessStep, 0, 8)
	for rows.Next() {
		v, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetProcessStep(ctx context.Context, id string) (*domain.ProcessStep, error) {
	v, err := scanStep(s.db.QueryRowContext(ctx, `select `+stepCols+` from process_steps where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &v, nil
}

func (s *Store) CreateProcessStep(ctx context.Context, v *domain.ProcessStep) error {
	v.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
insert into process_steps (id, step_number, title, description, icon, duration, display_order)
values ($1, $2, $3, $4, $5, $6, $7)
returning created_at, updated_at;
`, v.ID, v.StepNumber, v.Title, v.Description, v.Icon, v.Duration, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateProcessStep(ctx context.Context, v *domain.ProcessStep) error {
	err := s.db.QueryRowContext(ctx, `
update process_steps
set step_number = $2, title = $3, description = $4, icon = $5, duration = $6,
    display_order = $7, updated_at = now()
where id = $1
returning created_at, updated_at;
`, v.ID, v.StepNumber, v.Title, v.Description, v.Icon, v.Duration, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classifyID(err)
}

func (s *Store) DeleteProcessStep(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from process_steps where id = $1`, id)
}
