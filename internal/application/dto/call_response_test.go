package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallResult_EnvelopePopulatesExactlyOneSide(t *testing.T) {
	t.Run("success carries result and no error", func(t *testing.T) {
		data, err := json.Marshal(SuccessResult(map[string]any{"status": "pong"}))
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, true, decoded["success"])
		assert.Contains(t, decoded, "result")
		assert.NotContains(t, decoded, "error", "error must be absent on success")
	})

	t.Run("failure carries error and no result", func(t *testing.T) {
		data, err := json.Marshal(FailureResult("Unknown tool: bogus_tool"))
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, false, decoded["success"])
		assert.Equal(t, "Unknown tool: bogus_tool", decoded["error"])
		assert.NotContains(t, decoded, "result", "result must be absent on failure")
	})
}

func TestNewServiceInfo(t *testing.T) {
	withAuth := NewServiceInfo("2.0.0", true)
	assert.Equal(t, "Viterbit Tool Gateway", withAuth.Name)
	assert.Equal(t, "2.0.0", withAuth.Version)
	assert.Equal(t, "HTTP/SSE", withAuth.Protocol)
	assert.Equal(t, "X-API-Key header required", withAuth.Authentication)
	assert.Equal(t, "/tools/call", withAuth.Endpoints["call"])

	withoutAuth := NewServiceInfo("2.0.0", false)
	assert.Equal(t, "None (warning)", withoutAuth.Authentication, "a keyless gateway must advertise the warning")
}

func TestNewHealthStatus(t *testing.T) {
	health := NewHealthStatus("2.0.0", 25)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "2.0.0", health.Version)
	assert.Equal(t, 25, health.ToolsCount)
}
