package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const serviceCols = `id, title, description, icon, image, features, deliverables, price_range,
       featured, display_order, created_at, updated_at`

func scanService(row scanner) (domain.Service, error) {
	var v domain.Service
	var features, deliverables pq.StringArray
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Icon, &v.Image, &features, &deliverables,
		&v.PriceRange, &v.Featured, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt)
	v.Features = nonNil(features)
	v.Deliverables = nonNil(deliverables)
	return v, err
}

func (s *Store) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
select `+serviceCols+`
from services
order by display_order asc, created_at desc;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Service, 0, 8)
	for rows.Next() {
		v, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetService(ctx context.Context, id string) (*domain.Service, error) {
	v, err := scanService(s.db.QueryRowContext(ctx, `select `+serviceCols+` from services where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &v, nil
}

func (s *Store) CreateService(ctx context.Context, v *domain.Service) error {
	v.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
insert into services (id, title, description, icon, image, features, deliverables,
                      price_range, featured, display_order)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning created_at, updated_at;
`, v.ID, v.Title, v.Description, v.Icon, v.Image, pq.Array(nonNil(v.Features)),
		pq.Array(nonNil(v.Deliverables)), v.PriceRange, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateService(ctx context.Context, v *domain.Service) error {
	err := s.db.QueryRowContext(ctx, `
update services
set title = $2, description = $3, icon = $4, image = $5, features = $6, deliverables = $7,
    price_range = $8, featured = $9, display_order = $10, updated_at = now()
where id = $1
returning created_at, updated_at;
`, v.ID, v.Title, v.Description, v.Icon, v.Image, pq.Array(nonNil(v.Features)),
		pq.Array(nonNil(v.Deliverables)), v.PriceRange, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classifyID(err)
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from services where id = $1`, id)
}
