package api

import (
	"encoding/json"
	"fmt"

	"memoirvault/internal/client/models"
)

// statusResponse mirrors the wire shape of the status endpoints. Optional
// fields stay optional here; decodeTaskState converts the struct into the
// tagged union, rejecting impossible combinations on the way.
type statusResponse struct {
	Status   string          `json:"status"`
	Progress *int            `json:"progress,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func decodeTaskState[R any](data []byte) (models.TaskState, error) {
	var resp statusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("malformed status response: %w", err)
	}

	status := models.ProcessingStatus(resp.Status)
	if status != models.StatusCompleted && len(resp.Result) > 0 {
		return nil, fmt.Errorf("status %q must not carry a result", resp.Status)
	}

	switch status {
	case models.StatusPending:
		return models.TaskPending{Progress: resp.Progress}, nil
	case models.StatusProcessing:
		return models.TaskProcessing{Progress: resp.Progress}, nil
	case models.StatusCompleted:
		if len(resp.Result) == 0 {
			return nil, fmt.Errorf("completed status is missing its result")
		}
		var result R
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return nil, fmt.Errorf("malformed task result: %w", err)
		}
		return models.TaskCompleted[R]{Result: result}, nil
	case models.StatusFailed:
		return models.TaskFailed{Message: resp.Error}, nil
	default:
		return nil, fmt.Errorf("unknown task status %q", resp.Status)
	}
}
