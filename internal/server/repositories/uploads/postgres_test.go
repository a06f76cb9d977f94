package uploads

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"memoirvault/internal/common"
	"memoirvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+upload_sessions\s*\(user_id,\s*chapter_id,\s*file_name,\s*file_size,\s*chunk_size\)`

	rows := sqlmock.NewRows([]string{"id"}).AddRow("up-1")
	mock.ExpectQuery(q).
		WithArgs("u-1", "c-1", "take.webm", int64(10_000_000), int64(5_000_000)).
		WillReturnRows(rows)

	s := &models.UploadSession{
		UserID:    "u-1",
		ChapterID: "c-1",
		FileName:  "take.webm",
		FileSize:  10_000_000,
		ChunkSize: 5_000_000,
	}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "up-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+upload_sessions`).
		WithArgs("nope", "u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "nope", "u-1")
	if !errors.Is(err, common.ErrUploadNotFound) {
		t.Fatalf("expected common.ErrUploadNotFound, got %v", err)
	}
}

func TestRecordChunk_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+upload_sessions\s+SET\s+received_bytes`).
		WithArgs("up-1", int64(5_000_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordChunk(context.Background(), "up-1", 5_000_000); err != nil {
		t.Fatalf("RecordChunk error: %v", err)
	}
}

func TestRecordChunk_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+upload_sessions\s+SET\s+received_bytes`).
		WithArgs("nope", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordChunk(context.Background(), "nope", 1)
	if !errors.Is(err, common.ErrUploadNotFound) {
		t.Fatalf("expected common.ErrUploadNotFound, got %v", err)
	}
}

func TestMarkCompleted_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+upload_sessions\s+SET\s+completed\s*=\s*TRUE`).
		WithArgs("up-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkCompleted(context.Background(), "up-1"); err != nil {
		t.Fatalf("MarkCompleted error: %v", err)
	}
}
