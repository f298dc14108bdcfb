package monitors

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskar-korczak/mcp-server-datadog/internal/datadog"
)

// Helper function to extract text content from MCP result
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func TestHandleGetMonitors(t *testing.T) {
	ctx := context.Background()

	var gotPath string
	var gotQuery url.Values
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[
			{"id": 1, "name": "High CPU", "type": "metric alert", "query": "avg(last_5m):avg:system.cpu.user{*} > 90", "overall_state": "OK", "tags": ["team:sre"]},
			{"id": 2, "name": "Error rate", "type": "query alert", "query": "sum(last_5m):sum:trace.errors{service:web} > 100", "overall_state": "Alert", "tags": []}
		]`))
	}))
	defer mockServer.Close()

	client := datadog.NewClient(datadog.Config{BaseURL: mockServer.URL})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"name": "rate",
		"tags": "team:sre",
	}

	result, err := handleGetMonitors(ctx, client, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	assert.Equal(t, "/api/v1/monitor", gotPath)
	assert.Equal(t, "rate", gotQuery.Get("name"))
	assert.Equal(t, "team:sre", gotQuery.Get("tags"))

	text := getResultText(result)
	assert.Contains(t, text, "Monitors (2)")
	assert.Contains(t, text, "OK=1 Alert=1")
	assert.Contains(t, text, "[OK] High CPU")
	assert.Contains(t, text, "[Alert] Error rate")
	assert.Contains(t, text, "team:sre")
}

func TestHandleMuteMonitor(t *testing.T) {
	ctx := context.Background()

	var gotPath string
	var gotBody datadog.MonitorMuteRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 7, "name": "High CPU", "overall_state": "OK"}`))
	}))
	defer mockServer.Close()

	client := datadog.NewClient(datadog.Config{BaseURL: mockServer.URL})

	t.Run("mute with scope and end", func(t *testing.T) {
		before := time.Now().Unix()

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{
			"monitor_id": 7,
			"scope":      "host:web-01",
			"end":        "now+1h",
		}

		result, err := handleMuteMonitor(ctx, client, req)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.IsError)

		after := time.Now().Unix()

		assert.Equal(t, "/api/v1/monitor/7/mute", gotPath)
		assert.Equal(t, "host:web-01", gotBody.Scope)
		require.NotNil(t, gotBody.End)
		assert.GreaterOrEqual(t, *gotBody.End, before+3600)
		assert.LessOrEqual(t, *gotBody.End, after+3600)

		text := getResultText(result)
		assert.Contains(t, text, "Monitor 7 muted until")
	})

	t.Run("mute without end", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{
			"monitor_id": 7,
		}

		result, err := handleMuteMonitor(ctx, client, req)
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Nil(t, gotBody.End)
		assert.Equal(t, "Monitor 7 muted", getResultText(result))
	})

	t.Run("missing monitor_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{}

		result, err := handleMuteMonitor(ctx, client, req)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
		assert.Contains(t, getResultText(result), "monitor_id parameter is required")
	})

	t.Run("invalid end expression", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{
			"monitor_id": 7,
			"end":        "zzzzzz",
		}

		result, err := handleMuteMonitor(ctx, client, req)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
		assert.Contains(t, getResultText(result), "end:")
		assert.Contains(t, getResultText(result), "zzzzzz")
	})
}

func TestHandleUnmuteMonitor(t *testing.T) {
	ctx := context.Background()

	var gotPath string
	var gotBody datadog.MonitorUnmuteRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 7, "name": "High CPU", "overall_state": "OK"}`))
	}))
	defer mockServer.Close()

	client := datadog.NewClient(datadog.Config{BaseURL: mockServer.URL})

	t.Run("success", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{
			"monitor_id": 7,
			"scope":      "host:web-01",
		}

		result, err := handleUnmuteMonitor(ctx, client, req)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.IsError)

		assert.Equal(t, "/api/v1/monitor/7/unmute", gotPath)
		assert.Equal(t, "host:web-01", gotBody.Scope)
		assert.Equal(t, "Monitor 7 unmuted", getResultText(result))
	})

	t.Run("missing monitor_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]interface{}{}

		result, err := handleUnmuteMonitor(ctx, client, req)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
		assert.Contains(t, getResultText(result), "monitor_id parameter is required")
	})
}
