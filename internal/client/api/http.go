package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"memoirvault/internal/client/models"
	"memoirvault/internal/common"
)

// HTTPClient implements Client over the REST API described in the backend
// contract: JSON request/response bodies, raw octet-stream chunk PUTs, and a
// bearer token attached to every authenticated call.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// NewHTTPClient builds a client rooted at baseURL (e.g.
// "http://localhost:8000/api/v1"). The TokenProvider is consulted once per
// authenticated call.
func NewHTTPClient(baseURL string, tokens TokenProvider) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		tokens:  tokens,
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, authenticated bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if authenticated {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	return req, nil
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil, false)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	drain(resp)
	if !success(resp) {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode == http.StatusConflict {
		return common.ErrAlreadyExists
	}
	if !success(resp) {
		return fmt.Errorf("registration failed: %s", resp.Status)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return nil, common.ErrInvalidCredentials
	}
	if !success(resp) {
		drain(resp)
		return nil, fmt.Errorf("login failed: %s", resp.Status)
	}
	var result LoginResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) InitiateUpload(ctx context.Context, filename string, fileSize int64, chapterID string) (*InitiateResult, error) {
	body, err := json.Marshal(map[string]any{
		"filename":  filename,
		"fileSize":  fileSize,
		"chapterId": chapterID,
	})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/upload/initiate", bytes.NewReader(body), true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		drain(resp)
		return nil, fmt.Errorf("upload initiation failed: %s", resp.Status)
	}
	var result InitiateResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UploadChunk(ctx context.Context, uploadID string, index int, data []byte) error {
	path := fmt.Sprintf("/upload/chunk/%s/%d", uploadID, index)
	req, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewReader(data), true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	drain(resp)
	if !success(resp) {
		return fmt.Errorf("chunk upload failed: %s", resp.Status)
	}
	return nil
}

func (c *HTTPClient) CompleteUpload(ctx context.Context, uploadID string) (*CompleteResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/upload/complete/"+uploadID, nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		drain(resp)
		return nil, fmt.Errorf("upload completion failed: %s", resp.Status)
	}
	var result CompleteResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetUploadStatus(ctx context.Context, taskID string) (models.TaskState, error) {
	return getStatus[models.TranscriptionResult](ctx, c, "/upload/status/"+taskID, "status check failed")
}

func (c *HTTPClient) CompileChapter(ctx context.Context, chapterID string) (*CompileStarted, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chapters/"+chapterID+"/compile", nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		drain(resp)
		return nil, fmt.Errorf("compilation failed: %s", resp.Status)
	}
	var result CompileStarted
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetCompileStatus(ctx context.Context, taskID string) (models.TaskState, error) {
	return getStatus[models.CompileResult](ctx, c, "/compile/status/"+taskID, "compile status check failed")
}

// getStatus fetches a status endpoint and decodes the response into the
// tagged task-state union. phase is the error-message prefix so callers can
// tell which endpoint failed.
func getStatus[R any](ctx context.Context, c *HTTPClient, path, phase string) (models.TaskState, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		drain(resp)
		return nil, fmt.Errorf("%s: %s", phase, resp.Status)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeTaskState[R](data)
}
