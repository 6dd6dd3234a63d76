package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/man-in-deep/sonic/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Store{db: db}, mock
}

func historyColumns() []string {
	return []string{
		"id", "user_id", "user_prompt", "reference_image_path", "art_type",
		"medium_style", "model_used", "stroke_sequence", "generation_parameters",
		"image_path", "creation_duration", "created_at",
	}
}

func TestHistoryIncludesStrokeSequence(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(historyColumns()).AddRow(
		int64(1), "u1", "a fox in the snow", nil, "Realism",
		"Oil Paint", "black-forest-labs/FLUX.1-schnell",
		`[{"type":"smooth"}]`, `{"steps":40}`,
		"/static/images/artwork_x.png", 1.5, created,
	)
	mock.ExpectQuery("SELECT (.+) FROM artworks WHERE user_id").
		WithArgs("u1", 5).
		WillReturnRows(rows)

	got, err := store.History(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d artworks, want 1", len(got))
	}
	a := got[0]
	if a.StrokeSequence != `[{"type":"smooth"}]` {
		t.Fatalf("stroke sequence not populated: %q", a.StrokeSequence)
	}
	if a.GenerationParams != `{"steps":40}` {
		t.Fatalf("generation parameters: %q", a.GenerationParams)
	}
	if a.ReferenceImagePath != "" {
		t.Fatalf("null reference path should stay empty, got %q", a.ReferenceImagePath)
	}
	if !a.CreatedAt.Equal(created) {
		t.Fatalf("created at %v, want %v", a.CreatedAt, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHistoryAllUsersDefaultLimit(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM artworks ORDER BY created_at DESC").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(historyColumns()))

	got, err := store.History(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d artworks, want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveArtworkNullsEmptyOptionals(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO artworks").
		WithArgs(
			"u1", "a fox in the snow", nil, "Realism",
			"Oil Paint", "model-x", `[]`, `{"steps":40}`,
			"/static/images/artwork_x.png", 1.5,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveArtwork(context.Background(), model.Artwork{
		UserID:           "u1",
		UserPrompt:       "a fox in the snow",
		ArtType:          "Realism",
		MediumStyle:      "Oil Paint",
		ModelUsed:        "model-x",
		StrokeSequence:   `[]`,
		GenerationParams: `{"steps":40}`,
		ImagePath:        "/static/images/artwork_x.png",
		CreationDuration: 1.5,
	})
	if err != nil {
		t.Fatalf("save artwork: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS artworks").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
