package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const projectCols = `id, slug, title, description, room_type, style, location, area,
       coalesce(year, 0), duration, cover_image, images, features, featured, display_order,
       created_at, updated_at`

func scanProject(row scanner) (domain.Project, error) {
	var p domain.Project
	var images, features pq.StringArray
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.RoomType, &p.Style,
		&p.Location, &p.Area, &p.Year, &p.Duration, &p.CoverImage, &images, &features,
		&p.Featured, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	p.Images = nonNil(images)
	p.Features = nonNil(features)
	return p, err
}

func (s *Store) queryProjects(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.queryProjects(ctx, `
select `+projectCols+`
from projects
order by display_order asc, created_at desc;
`)
}

func (s *Store) ListProjectsByRoomType(ctx context.Context, roomType string) ([]domain.Project, error) {
	return s.queryProjects(ctx, `
select `+projectCols+`
from projects
where lower(room_type) = lower($1)
order by display_order asc, created_at desc;
`, roomType)
}

func (s *Store) ListFeaturedProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryProjects(ctx, `
select `+projectCols+`
from projects
where featured
order by display_order asc, created_at desc
limit $1;
`, limit)
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &p, nil
}

func (s *Store) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where slug = $1`, slug))
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func nullYear(y int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(y), Valid: y > 0}
}

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	p.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
insert into projects (id, slug, title, description, room_type, style, location, area,
                      year, duration, cover_image, images, features, featured, display_order)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
returning created_at, updated_at;
`, p.ID, p.Slug, p.Title, p.Description, p.RoomType, p.Style, p.Location, p.Area,
		nullYear(p.Year), p.Duration, p.CoverImage, pq.Array(nonNil(p.Images)), pq.Array(nonNil(p.Features)),
		p.Featured, p.DisplayOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	err := s.db.QueryRowContext(ctx, `
update projects
set slug = $2, title = $3, description = $4, room_type = $5, style = $6, location = $7,
    area = $8, year = $9, duration = $10, cover_image = $11, images = $12, features = $13,
    featured = $14, display_order = $15, updated_at = now()
where id = $1
returning created_at, updated_at;
`, p.ID, p.Slug, p.Title, p.Description, p.RoomType, p.Style, p.Location, p.Area,
		nullYear(p.Year), p.Duration, p.CoverImage, pq.Array(nonNil(p.Images)), pq.Array(nonNil(p.Features)),
		p.Featured, p.DisplayOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return classifyID(err)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from projects where id = $1`, id)
}
