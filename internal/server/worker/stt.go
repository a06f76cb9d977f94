package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TranscriptionResult is what the speech-to-text service returns and what a
// completed transcription task stores as its result payload.
type TranscriptionResult struct {
	Transcription string  `json:"transcription"`
	Duration      float64 `json:"duration"`
}

// Transcriber converts recorded audio to text. The real implementation
// delegates to an external STT service; tests substitute a fake.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, contentType string) (*TranscriptionResult, error)
}

// HTTPTranscriber posts the raw audio to an STT endpoint and decodes the
// JSON response.
type HTTPTranscriber struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTranscriber(endpoint string) *HTTPTranscriber {
	return &HTTPTranscriber{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio io.Reader, contentType string) (*TranscriptionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stt request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("stt service returned %d: %s", resp.StatusCode, string(body))
	}

	var result TranscriptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode stt response: %w", err)
	}

	return &result, nil
}
