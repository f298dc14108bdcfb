package monitors

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oskar-korczak/mcp-server-datadog/internal/common"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datadog"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datetime"
)

func handleGetMonitors(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	if groupStates := mcp.ParseString(request, "group_states", ""); groupStates != "" {
		params.Set("group_states", groupStates)
	}
	if name := mcp.ParseString(request, "name", ""); name != "" {
		params.Set("name", name)
	}
	if tags := mcp.ParseString(request, "tags", ""); tags != "" {
		params.Set("tags", tags)
	}

	var monitors []datadog.Monitor
	if err := client.Get(ctx, "/api/v1/monitor", params, &monitors); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	states := map[string]int{}
	for _, mon := range monitors {
		states[mon.OverallState]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Monitors (%d):\n", len(monitors)))
	sb.WriteString(fmt.Sprintf("Summary: OK=%d Alert=%d Warn=%d No Data=%d\n\n",
		states["OK"], states["Alert"], states["Warn"], states["No Data"]))

	for _, mon := range monitors {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", mon.OverallState, mon.Name))
		sb.WriteString(fmt.Sprintf("  ID: %d | Type: %s\n", mon.ID, mon.Type))
		sb.WriteString(fmt.Sprintf("  Query: %s\n", common.Truncate(mon.Query, 100)))
		if len(mon.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("  Tags: %s\n", strings.Join(mon.Tags, ", ")))
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleMuteMonitor(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	monitorID := mcp.ParseInt64(request, "monitor_id", 0)
	if monitorID <= 0 {
		return mcp.NewToolResultError("monitor_id parameter is required"), nil
	}

	end, err := datetime.ResolveOptionalParam(request, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := datadog.MonitorMuteRequest{
		Scope: mcp.ParseString(request, "scope", ""),
		End:   end,
	}

	endpoint := fmt.Sprintf("/api/v1/monitor/%d/mute", monitorID)
	if err := client.Post(ctx, endpoint, payload, nil); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	msg := fmt.Sprintf("Monitor %d muted", monitorID)
	if end != nil {
		msg += fmt.Sprintf(" until %s", datetime.FormatEpoch(*end))
	}
	return mcp.NewToolResultText(msg), nil
}

func handleUnmuteMonitor(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	monitorID := mcp.ParseInt64(request, "monitor_id", 0)
	if monitorID <= 0 {
		return mcp.NewToolResultError("monitor_id parameter is required"), nil
	}

	payload := datadog.MonitorUnmuteRequest{
		Scope: mcp.ParseString(request, "scope", ""),
	}

	endpoint := fmt.Sprintf("/api/v1/monitor/%d/unmute", monitorID)
	if err := client.Post(ctx, endpoint, payload, nil); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Monitor %d unmuted", monitorID)), nil
}

func RegisterMonitorTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("get_monitors",
		mcp.WithDescription("List Datadog monitors with a state summary"),
		mcp.WithString("group_states", mcp.Description("Group states to include, comma-separated (all, alert, warn, no data)")),
		mcp.WithString("name", mcp.Description("Only monitors whose name contains this string")),
		mcp.WithString("tags", mcp.Description("Only monitors with these tags, comma-separated (e.g. 'team:payments')")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetMonitors(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("mute_monitor",
		mcp.WithDescription("Mute a monitor, optionally for a scope and until a point in time"),
		mcp.WithNumber("monitor_id", mcp.Description("ID of the monitor to mute"), mcp.Required()),
		mcp.WithString("scope", mcp.Description("Scope to mute (e.g. 'host:web-01'); omit to mute everywhere")),
		mcp.WithString("end", mcp.Description("When the mute expires; omit for no expiry. Accepts "+datetime.SupportedFormats)),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMuteMonitor(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("unmute_monitor",
		mcp.WithDescription("Unmute a monitor, optionally for a single scope"),
		mcp.WithNumber("monitor_id", mcp.Description("ID of the monitor to unmute"), mcp.Required()),
		mcp.WithString("scope", mcp.Description("Scope to unmute; omit to unmute everywhere")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUnmuteMonitor(ctx, client, request)
	})
}
