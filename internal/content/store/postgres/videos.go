package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const videoCols = `id, title, description, video_url, thumbnail, category, featured, display_order,
       created_at, updated_at`

func scanVideo(row scanner) (domain.Video, error) {
	var v domain.Video
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.Thumbnail, &v.Category,
		&v.Featured, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) queryVideos(ctx context.Context, q string, args ...any) ([]domain.Video, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Video, 0, 8)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return s.queryVideos(ctx, `
select `+videoCols+`
from videos
order by display_order asc, created_at desc;
`)
}

func (s *Store) ListVideosByCategory(ctx context.Context, category string) ([]domain.Video, error) {
	return s.queryVideos(ctx, `
select `+videoCols+`
from videos
where lower(category) = lower($1)
order by display_order asc, created_at desc;
`, category)
}

func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	v, err := scanVideo(s.db.QueryRowContext(ctx, `select `+videoCols+` from videos where id = $1`, id))
	if err != nil {
		return nil, classifyID(err)
	}
	return &v, nil
}

func (s *Store) CreateVideo(ctx context.Context, v *domain.Video) error {
	v.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
insert into videos (id, title, description, video_url, thumbnail, category, featured, display_order)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning created_at, updated_at;
`, v.ID, v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Category, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classify(err)
}

func (s *Store) UpdateVideo(ctx context.Context, v *domain.Video) error {
	err := s.db.QueryRowContext(ctx, `
update videos
set title = $2, description = $3, video_url = $4, thumbnail = $5, category = $6,
    featured = $7, display_order = $8, updated_at = now()
where id = $1
returning created_at, updated_at;
`, v.ID, v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Category, v.Featured, v.DisplayOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return classifyID(err)
}

func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	return s.execOne(ctx, `delete from videos where id = $1`, id)
}
