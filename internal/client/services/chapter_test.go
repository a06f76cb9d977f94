package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoirvault/internal/client/api"
	"memoirvault/internal/client/models"
	"memoirvault/internal/client/repositories/chapters"

	_ "modernc.org/sqlite"
)

func setupChapterRepo(t *testing.T) chapters.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE chapters (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return chapters.NewSQLiteRepository(db)
}

// compileAPI scripts only the compile endpoints.
type compileAPI struct {
	fakeAPI
	startErr error
	states   []models.TaskState
	calls    int
}

func (f *compileAPI) CompileChapter(ctx context.Context, chapterID string) (*api.CompileStarted, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &api.CompileStarted{TaskID: "c-task", Status: "processing"}, nil
}

func (f *compileAPI) GetCompileStatus(ctx context.Context, taskID string) (models.TaskState, error) {
	i := f.calls
	f.calls++
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	return f.states[i], nil
}

func intPtr(v int) *int { return &v }

func TestChapterService_AddListDelete(t *testing.T) {
	repo := setupChapterRepo(t)
	svc := NewChapterService(&compileAPI{}, repo, testLogger())
	ctx := context.Background()

	id, err := svc.Add(ctx, "Childhood", "early years")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Childhood", list[0].Title)
	assert.Equal(t, "early years", list[0].Description)

	require.NoError(t, svc.Delete(ctx, id))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChapterService_CompileBlocksUntilCompleted(t *testing.T) {
	backend := &compileAPI{
		states: []models.TaskState{
			models.TaskProcessing{Progress: intPtr(40)},
			models.TaskCompleted[models.CompileResult]{
				Result: models.CompileResult{
					CompiledText: "Once upon a time...",
					Summary:      "a life",
					KeyPoints:    []string{"born", "lived"},
				},
			},
		},
	}
	svc := NewChapterService(backend, setupChapterRepo(t), testLogger(),
		WithCompileSleeper(noSleep))

	var seen []models.ProcessingStatus
	result, err := svc.Compile(context.Background(), "c1",
		func(status models.ProcessingStatus, progress *int) {
			seen = append(seen, status)
		})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time...", result.CompiledText)
	assert.Equal(t, []string{"born", "lived"}, result.KeyPoints)
	assert.Equal(t, []models.ProcessingStatus{
		models.StatusProcessing, models.StatusCompleted,
	}, seen)
	assert.Equal(t, 2, backend.calls)
}

func TestChapterService_CompileFailureSurfacesMessage(t *testing.T) {
	backend := &compileAPI{
		states: []models.TaskState{models.TaskFailed{Message: "not enough material"}},
	}
	svc := NewChapterService(backend, setupChapterRepo(t), testLogger(),
		WithCompileSleeper(noSleep))

	_, err := svc.Compile(context.Background(), "c1", nil)
	require.Error(t, err)
	assert.EqualError(t, err, "compilation failed: not enough material")
}

func TestChapterService_CompileStartErrorPropagates(t *testing.T) {
	boom := errors.New("compilation failed: 502 Bad Gateway")
	svc := NewChapterService(&compileAPI{startErr: boom}, setupChapterRepo(t),
		testLogger(), WithCompileSleeper(noSleep))

	_, err := svc.Compile(context.Background(), "c1", nil)
	require.ErrorIs(t, err, boom)
}
