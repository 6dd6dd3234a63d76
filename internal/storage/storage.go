// Package storage persists artwork records to MySQL. The connection is
// opened lazily; an unreachable database degrades saves and reads, it never
// blocks startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/man-in-deep/sonic/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS artworks (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id VARCHAR(128) NOT NULL DEFAULT 'anonymous',
	user_prompt TEXT NOT NULL,
	reference_image_path VARCHAR(512),
	art_type VARCHAR(64) NOT NULL,
	medium_style VARCHAR(64) NOT NULL,
	model_used VARCHAR(128) NOT NULL,
	stroke_sequence LONGTEXT,
	generation_parameters TEXT,
	image_path VARCHAR(512) NOT NULL,
	creation_duration DOUBLE NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	INDEX idx_artworks_user_created (user_id, created_at)
)`

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store dsn is empty")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return &Store{db: db}, nil
}

// EnsureSchema creates the artworks table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) SaveArtwork(ctx context.Context, a model.Artwork) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artworks (
			user_id, user_prompt, reference_image_path, art_type,
			medium_style, model_used, stroke_sequence,
			generation_parameters, image_path, creation_duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.UserID,
		a.UserPrompt,
		nullable(a.ReferenceImagePath),
		a.ArtType,
		a.MediumStyle,
		a.ModelUsed,
		nullable(a.StrokeSequence),
		nullable(a.GenerationParams),
		a.ImagePath,
		a.CreationDuration,
	)
	return err
}

// History returns the newest artworks first, optionally filtered by user.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]model.Artwork, error) {
	if limit <= 0 {
		limit = 10
	}
	var (
		rows *sql.Rows
		err  error
	)
	if userID != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, user_id, user_prompt, reference_image_path, art_type,
			       medium_style, model_used, stroke_sequence,
			       generation_parameters, image_path, creation_duration,
			       created_at
			FROM artworks WHERE user_id = ?
			ORDER BY created_at DESC LIMIT ?
		`, userID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, user_id, user_prompt, reference_image_path, art_type,
			       medium_style, model_used, stroke_sequence,
			       generation_parameters, image_path, creation_duration,
			       created_at
			FROM artworks ORDER BY created_at DESC LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Artwork, 0, limit)
	for rows.Next() {
		var (
			a         model.Artwork
			reference sql.NullString
			strokeSeq sql.NullString
			params    sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.UserPrompt, &reference, &a.ArtType,
			&a.MediumStyle, &a.ModelUsed, &strokeSeq,
			&params, &a.ImagePath, &a.CreationDuration, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if reference.Valid {
			a.ReferenceImagePath = reference.String
		}
		if strokeSeq.Valid {
			a.StrokeSequence = strokeSeq.String
		}
		if params.Valid {
			a.GenerationParams = params.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(v string) interface{} {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
