package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoirvault/internal/common"
	"memoirvault/internal/logging"
	"memoirvault/internal/server/auth"
	"memoirvault/internal/server/config"
	"memoirvault/internal/server/models"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// in-memory fakes

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.UserName]; ok {
		return nil, fmt.Errorf("duplicate key value violates unique constraint")
	}
	m.seq++
	user.ID = fmt.Sprintf("u-%d", m.seq)
	m.users[user.UserName] = user
	return user, nil
}

func (m *memUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type memUploads struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*models.UploadSession
}

func newMemUploads() *memUploads { return &memUploads{sessions: map[string]*models.UploadSession{}} }

func (m *memUploads) Create(ctx context.Context, s *models.UploadSession) (*models.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = fmt.Sprintf("up-%d", m.seq)
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memUploads) Get(ctx context.Context, id, userID string) (*models.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, common.ErrUploadNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memUploads) RecordChunk(ctx context.Context, id string, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return common.ErrUploadNotFound
	}
	s.ReceivedBytes += size
	s.ChunkCount++
	return nil
}

func (m *memUploads) MarkCompleted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return common.ErrUploadNotFound
	}
	s.Completed = true
	return nil
}

func (m *memUploads) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type memTasks struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*models.Task
}

func newMemTasks() *memTasks { return &memTasks{tasks: map[string]*models.Task{}} }

func (m *memTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("t-%d", m.seq)
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memTasks) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memTasks) SetProcessing(ctx context.Context, id string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return common.ErrNotFound
	}
	t.Status = models.TaskProcessing
	t.Progress = &progress
	return nil
}

func (m *memTasks) SetCompleted(ctx context.Context, id string, result []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return common.ErrNotFound
	}
	t.Status = models.TaskCompleted
	t.Result = result
	return nil
}

func (m *memTasks) SetFailed(ctx context.Context, id, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return common.ErrNotFound
	}
	t.Status = models.TaskFailed
	t.ErrorMessage = message
	return nil
}

type memRecordings struct {
	mu   sync.Mutex
	seq  int
	recs map[string]*models.Recording
}

func newMemRecordings() *memRecordings { return &memRecordings{recs: map[string]*models.Recording{}} }

func (m *memRecordings) Create(ctx context.Context, r *models.Recording) (*models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = fmt.Sprintf("rec-%d", m.seq)
	m.recs[r.ID] = r
	return r, nil
}

func (m *memRecordings) Get(ctx context.Context, id string) (*models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memRecordings) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return common.ErrNotFound
	}
	r.Status = status
	return nil
}

func (m *memRecordings) SetTranscription(ctx context.Context, id, transcription string, duration float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return common.ErrNotFound
	}
	r.Transcription = transcription
	r.Duration = duration
	r.Status = models.TaskCompleted
	return nil
}

func (m *memRecordings) ListByChapter(ctx context.Context, userID, chapterID string) ([]*models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Recording
	for _, r := range m.recs {
		if r.UserID == userID && r.ChapterID == chapterID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) PresignGetURL(ctx context.Context, key string) (string, error) {
	return "https://store.local/" + key, nil
}

type memPublisher struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (m *memPublisher) Publish(ctx context.Context, job queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

type testEnv struct {
	router     *gin.Engine
	cfg        *config.Config
	users      *memUsers
	uploads    *memUploads
	tasks      *memTasks
	recordings *memRecordings
	store      *memStore
	published  *memPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ChunkSize = 5

	env := &testEnv{
		cfg:        cfg,
		users:      newMemUsers(),
		uploads:    newMemUploads(),
		tasks:      newMemTasks(),
		recordings: newMemRecordings(),
		store:      newMemStore(),
		published:  &memPublisher{},
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := NewServer(cfg, logger, env.users, env.uploads, env.tasks, env.recordings,
		storage.NewStaging(t.TempDir()), env.store, env.published)
	env.router = srv.Router()
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T, username string) (token, userID string) {
	t.Helper()
	body := []byte(`{"username":"` + username + `","password":"secret1"}`)

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", body, "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/v1/auth/login", "", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.UserID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	body := []byte(`{"username":"alice","password":"secret1"}`)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", body, "application/json")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/register", "", body, "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice")

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		[]byte(`{"username":"alice","password":"wrong!"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsMissingAndBogusTokens(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/upload/initiate", "", nil, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/upload/initiate", "not.a.jwt", nil, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	otherSecret, err := auth.GenerateToken("u-1", []byte("other-secret"), env.cfg.TokenValidityDuration)
	require.NoError(t, err)
	w = env.do(t, http.MethodPost, "/api/v1/upload/initiate", otherSecret, nil, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChunkedUpload_FullFlow(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerAndLogin(t, "alice")

	payload := []byte("hello world") // 11 bytes, chunk size 5 -> 3 chunks

	initBody := []byte(`{"filename":"memoir.webm","fileSize":11,"chapterId":"c-1"}`)
	w := env.do(t, http.MethodPost, "/api/v1/upload/initiate", token, initBody, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var initResp struct {
		UploadID  string `json:"uploadId"`
		ChunkSize int64  `json:"chunkSize"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))
	assert.Equal(t, int64(5), initResp.ChunkSize)

	for i := 0; i*5 < len(payload); i++ {
		end := (i + 1) * 5
		if end > len(payload) {
			end = len(payload)
		}
		path := fmt.Sprintf("/api/v1/upload/chunk/%s/%d", initResp.UploadID, i)
		w = env.do(t, http.MethodPut, path, token, payload[i*5:end], "application/octet-stream")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/v1/upload/complete/"+initResp.UploadID, token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var completeResp struct {
		TaskID      string `json:"taskId"`
		RecordingID string `json:"recordingId"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completeResp))
	assert.Equal(t, "pending", completeResp.Status)

	// assembled audio landed in the object store under the expected key
	key := storage.AudioKey(userID, initResp.UploadID, "memoir.webm")
	assert.Equal(t, payload, env.store.objects[key])

	// one transcription job was published for the created task
	require.Len(t, env.published.jobs, 1)
	job := env.published.jobs[0]
	assert.Equal(t, completeResp.TaskID, job.TaskID)
	assert.Equal(t, "transcription", job.Kind)
	assert.Equal(t, key, job.AudioKey)

	// second complete is rejected
	w = env.do(t, http.MethodPost, "/api/v1/upload/complete/"+initResp.UploadID, token, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompleteUpload_MissingChunk(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "alice")

	initBody := []byte(`{"filename":"memoir.webm","fileSize":10,"chapterId":"c-1"}`)
	w := env.do(t, http.MethodPost, "/api/v1/upload/initiate", token, initBody, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var initResp struct {
		UploadID string `json:"uploadId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))

	// only chunk 1, chunk 0 never arrives
	w = env.do(t, http.MethodPut, "/api/v1/upload/chunk/"+initResp.UploadID+"/1", token,
		[]byte("hello"), "application/octet-stream")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/upload/complete/"+initResp.UploadID, token, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.published.jobs)
}

func TestUploadChunk_ForeignSessionInvisible(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.registerAndLogin(t, "alice")
	bobToken, _ := env.registerAndLogin(t, "bob")

	initBody := []byte(`{"filename":"memoir.webm","fileSize":5,"chapterId":"c-1"}`)
	w := env.do(t, http.MethodPost, "/api/v1/upload/initiate", aliceToken, initBody, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var initResp struct {
		UploadID string `json:"uploadId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))

	w = env.do(t, http.MethodPut, "/api/v1/upload/chunk/"+initResp.UploadID+"/0", bobToken,
		[]byte("x"), "application/octet-stream")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskStatus_Variants(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerAndLogin(t, "alice")

	task, err := env.tasks.Create(context.Background(), &models.Task{
		Kind: models.TaskKindTranscription, UserID: userID, SubjectID: "rec-1",
		Status: models.TaskPending,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/v1/upload/status/"+task.ID, token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"pending"}`, w.Body.String())

	require.NoError(t, env.tasks.SetProcessing(context.Background(), task.ID, 40))
	w = env.do(t, http.MethodGet, "/api/v1/upload/status/"+task.ID, token, nil, "")
	assert.JSONEq(t, `{"status":"processing","progress":40}`, w.Body.String())

	require.NoError(t, env.tasks.SetCompleted(context.Background(), task.ID,
		[]byte(`{"transcription":"X","duration":62}`)))
	w = env.do(t, http.MethodGet, "/api/v1/upload/status/"+task.ID, token, nil, "")
	assert.JSONEq(t, `{"status":"completed","result":{"transcription":"X","duration":62}}`, w.Body.String())

	require.NoError(t, env.tasks.SetFailed(context.Background(), task.ID, "stt exploded"))
	w = env.do(t, http.MethodGet, "/api/v1/upload/status/"+task.ID, token, nil, "")
	assert.JSONEq(t, `{"status":"failed","error":"stt exploded"}`, w.Body.String())

	// unknown task
	w = env.do(t, http.MethodGet, "/api/v1/upload/status/nope", token, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompileChapter_RequiresTranscribedRecordings(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerAndLogin(t, "alice")

	w := env.do(t, http.MethodPost, "/api/v1/chapters/c-1/compile", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := env.recordings.Create(context.Background(), &models.Recording{
		UserID: userID, ChapterID: "c-1", Title: "take", Status: models.TaskCompleted,
	})
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api/v1/chapters/c-1/compile", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		TaskID string `json:"taskId"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)

	require.Len(t, env.published.jobs, 1)
	assert.Equal(t, "compile", env.published.jobs[0].Kind)
	assert.Equal(t, "c-1", env.published.jobs[0].ChapterID)
}

func TestListRecordings(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerAndLogin(t, "alice")

	_, err := env.recordings.Create(context.Background(), &models.Recording{
		UserID: userID, ChapterID: "c-1", Title: "take", AudioKey: "audio/a",
		Transcription: "hello", Duration: 62, Status: models.TaskCompleted,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/v1/recordings/c-1", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recordings []map[string]any `json:"recordings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recordings, 1)
	assert.Equal(t, "take", resp.Recordings[0]["title"])
	assert.Equal(t, "https://store.local/audio/a", resp.Recordings[0]["audioUrl"])
}
