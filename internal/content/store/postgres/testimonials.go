package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const testimonialCols = `id, client_name, client_role, location, quote, rating, image,
       coalesce(project_slug, ''), featured, display_order, created_at, updated_at`

func scanTestimonial(row scanner) (domain.Testimonial, error) {
	var v domain.Testimonial
	err := row.Scan(&v.ID, &v.ClientName, &v.ClientRole, &v.Location, &v.Quote, &v.Rating,
		&v.Image, &v.ProjectSlug, &v.Featured, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, `
select `+testimonialCols+`
from testimonials
order by display_order asc, created_at desc;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Testimonial, 0, 8)
	for rows.Next() {
		v, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetTestimonial(ctx context.Context, id string) (*domain.Testimonial, error) {
	v, err := scanTestimonial(s.db.QueryRowContext(ctx, `select `+testimonialCols+` from testimonials where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &v, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, v *domain.Testimonial) error {
	v.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
insert into testimonials (id, client_name, client_role, location, quote, rating, image,
                          project_slug, featured, display_order)
values ($1, $2, $3, $4, $5, $6, $7, nullif($8, ''), $9, $10)
returning created_at, updated_at;
`, v.ID, v.ClientName, v.ClientRole, v.Location, v.Quote, v.Rating, v.Image,
		v.ProjectSlug, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateTestimonial(ctx context.Context, v *domain.Testimonial) error {
	err := s.db.QueryRowContext(ctx, `
update testimonials
set client_name = $2, client_role = $3, location = $4, quote = $5, rating = $6, image = $7,
    project_slug = nullif($8, ''), featured = $9, display_order = $10, updated_at = now()
where id = $1
returning created_at, updated_at;
`, v.ID, v.ClientName, v.ClientRole, v.Location, v.Quote, v.Rating, v.Image,
		v.ProjectSlug, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classifyID(err)
}

func (s *Store) DeleteTestimonial(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from testimonials where id = $1`, id)
}
