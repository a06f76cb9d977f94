package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfig_Unmarshal(t *testing.T) {
	data := []byte(`{
		"api_base_url": "https://api.example.com/api/v1",
		"database_path": "/tmp/mv.db",
		"poll_interval": "5s",
		"watch_dir": "/tmp/inbox"
	}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	assert.Equal(t, "https://api.example.com/api/v1", jc.APIBaseURL)
	assert.Equal(t, "/tmp/mv.db", jc.DatabasePath)
	assert.Equal(t, 5*time.Second, time.Duration(jc.PollInterval.Duration))
	assert.Equal(t, "/tmp/inbox", jc.WatchDir)
}

func TestJsonConfig_UnmarshalNanoseconds(t *testing.T) {
	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{"poll_interval": 2000000000}`), &jc))
	assert.Equal(t, 2*time.Second, time.Duration(jc.PollInterval.Duration))
}
