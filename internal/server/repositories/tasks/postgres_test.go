package tasks

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

	rows := sqlmock.NewRows([]string{"id"}).AddRow("t-1")
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tasks`).
		WithArgs(models.TaskKindTranscription, "u-1", "rec-1", models.TaskPending).
		WillReturnRows(rows)

	task := &models.Task{
		Kind:      models.TaskKindTranscription,
		UserID:    "u-1",
		SubjectID: "rec-1",
		Status:    models.TaskPending,
	}
	got, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "t-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGet_OtherUsersTaskIsInvisible(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+tasks`).
		WithArgs("t-1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "t-1", "intruder")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestSetCompleted_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	result := []byte(`{"transcription":"X","duration":62}`)
	mock.ExpectExec(`(?s)^UPDATE\s+tasks\s+SET\s+status`).
		WithArgs("t-1", models.TaskCompleted, result).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetCompleted(context.Background(), "t-1", result); err != nil {
		t.Fatalf("SetCompleted error: %v", err)
	}
}

func TestSetFailed_MissingTask(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+tasks\s+SET\s+status`).
		WithArgs("nope", models.TaskFailed, "stt exploded").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetFailed(context.Background(), "nope", "stt exploded")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}
