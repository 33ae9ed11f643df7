package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/atsconvert/pkg/resume"
)

// ConversionRepository хранит метаданные конверсий и нормализованный текст.
type ConversionRepository struct {
	pool *pgxpool.Pool
}

func NewConversionRepository(pool *pgxpool.Pool) (*ConversionRepository, error) {
	r := &ConversionRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ConversionRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS conversions (
	id UUID PRIMARY KEY,
	owner_id UUID,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	storage_uri TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS converted_resumes (
	conversion_id UUID PRIMARY KEY REFERENCES conversions(id) ON DELETE CASCADE,
	text TEXT NOT NULL,
	section_markers INT NOT NULL DEFAULT 0,
	bullet_lines INT NOT NULL DEFAULT 0,
	skill_phrases INT NOT NULL DEFAULT 0,
	unmatched_bullets INT NOT NULL DEFAULT 0
);
`)
	return err
}

func (r *ConversionRepository) Create(ctx context.Context, c resume.Conversion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO conversions (id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, c.ID, c.OwnerID, c.Filename, c.MimeType, c.Size, c.StorageURI, c.CreatedAt)
	return err
}

func (r *ConversionRepository) SaveConverted(ctx context.Context, cv resume.Converted) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO converted_resumes (conversion_id, text, section_markers, bullet_lines, skill_phrases, unmatched_bullets)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (conversion_id) DO UPDATE SET
	text = EXCLUDED.text,
	section_markers = EXCLUDED.section_markers,
	bullet_lines = EXCLUDED.bullet_lines,
	skill_phrases = EXCLUDED.skill_phrases,
	unmatched_bullets = EXCLUDED.unmatched_bullets
`, cv.ConversionID, cv.Text, cv.Report.SectionMarkers, cv.Report.BulletLines, cv.Report.SkillPhrases, cv.Report.UnmatchedBullets)
	return err
}

func (r *ConversionRepository) GetConverted(ctx context.Context, conversionID uuid.UUID) (resume.Converted, error) {
	row := r.pool.QueryRow(ctx, `
SELECT conversion_id, text, section_markers, bullet_lines, skill_phrases, unmatched_bullets
FROM converted_resumes WHERE conversion_id = $1
`, conversionID)
	var cv resume.Converted
	if err := row.Scan(&cv.ConversionID, &cv.Text,
		&cv.Report.SectionMarkers, &cv.Report.BulletLines,
		&cv.Report.SkillPhrases, &cv.Report.UnmatchedBullets); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Converted{}, pgx.ErrNoRows
		}
		return resume.Converted{}, err
	}
	return cv, nil
}

func (r *ConversionRepository) GetMetaForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Conversion, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
FROM conversions WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	return scanConversion(row)
}

func (r *ConversionRepository) GetMetaAny(ctx context.Context, id uuid.UUID) (resume.Conversion, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
FROM conversions WHERE id = $1
`, id)
	return scanConversion(row)
}

func (r *ConversionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
FROM conversions WHERE owner_id = $3
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset, ownerID)
	if err != nil {
		return nil, err
	}
	return collectConversions(rows)
}

func (r *ConversionRepository) ListAll(ctx context.Context, limit, offset int) ([]resume.Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
FROM conversions
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectConversions(rows)
}

func (r *ConversionRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Conversion, error) {
	row := r.pool.QueryRow(ctx, `
DELETE FROM conversions WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
`, id, ownerID)
	return scanConversion(row)
}

func (r *ConversionRepository) DeleteAny(ctx context.Context, id uuid.UUID) (resume.Conversion, error) {
	row := r.pool.QueryRow(ctx, `
DELETE FROM conversions WHERE id = $1
RETURNING id, owner_id, filename, mime_type, size_bytes, storage_uri, created_at
`, id)
	return scanConversion(row)
}

func scanConversion(row pgx.Row) (resume.Conversion, error) {
	var m resume.Conversion
	var created time.Time
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Filename, &m.MimeType, &m.Size, &m.StorageURI, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Conversion{}, pgx.ErrNoRows
		}
		return resume.Conversion{}, err
	}
	m.CreatedAt = created.UTC()
	return m, nil
}

func collectConversions(rows pgx.Rows) ([]resume.Conversion, error) {
	defer rows.Close()
	var res []resume.Conversion
	for rows.Next() {
		var m resume.Conversion
		var created time.Time
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Filename, &m.MimeType, &m.Size, &m.StorageURI, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = created.UTC()
		res = append(res, m)
	}
	return res, rows.Err()
}
