package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

func scanSection(row scanner) (domain.ContentSection, error) {
	var sec domain.ContentSection
	var raw []byte
	if err := row.Scan(&sec.SectionKey, &raw, &sec.UpdatedAt); err != nil {
		return sec, err
	}
	sec.Content = domain.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &sec.Content); err != nil {
			return sec, fmt.Errorf("decode section %s: %w", sec.SectionKey, err)
		}
	}
	return sec, nil
}

func (s *Store) GetSection(ctx context.Context, key string) (*domain.ContentSection, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx, `
select section_key, content::text, updated_at
from site_content
where section_key = $1;
`, key))
	if err != nil {
		return nil, classify(err)
	}
	return &sec, nil
}

func (s *Store) ListSections(ctx context.Context) ([]domain.ContentSection, error) {
	rows, err := s.db.QueryContext(ctx, `
select section_key, content::text, updated_at
from site_content
order by section_key;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ContentSection, 0, 8)
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// UpsertSection relies on the unique index on section_key: the row lock taken
// by ON CONFLICT serialises concurrent writers and the last one wins.
func (s *Store) UpsertSection(ctx context.Context, sec *domain.ContentSection) error {
	doc := sec.Content
	if doc == nil {
		doc = domain.Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode section %s: %w", sec.SectionKey, err)
	}
	err = s.db.QueryRowContext(ctx, `
insert into site_content (section_key, content)
values ($1, $2::jsonb)
on conflict (section_key) do update set
    content = excluded.content,
    updated_at = now()
returning updated_at;
`, sec.SectionKey, string(raw)).Scan(&sec.UpdatedAt)
	return classify(err)
}
