package downtimes

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

func handleListDowntimes(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	if mcp.ParseBoolean(request, "current_only", false) {
		params.Set("current_only", "true")
	}

	var downtimes []datadog.Downtime
	if err := client.Get(ctx, "/api/v1/downtime", params, &downtimes); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Downtimes (%d):\n\n", len(downtimes)))

	for _, dt := range downtimes {
		state := "inactive"
		if dt.Active {
			state = "active"
		}
		if dt.Disabled {
			state = "canceled"
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", state, strings.Join(dt.Scope, ", ")))
		sb.WriteString(fmt.Sprintf("  ID: %d\n", dt.ID))
		sb.WriteString(fmt.Sprintf("  Start: %s\n", datetime.FormatEpoch(dt.Start)))
		if dt.End != nil {
			sb.WriteString(fmt.Sprintf("  End: %s\n", datetime.FormatEpoch(*dt.End)))
		}
		if dt.MonitorID != nil {
			sb.WriteString(fmt.Sprintf("  Monitor ID: %d\n", *dt.MonitorID))
		}
		if dt.Message != "" {
			sb.WriteString(fmt.Sprintf("  Message: %s\n", common.Truncate(dt.Message, 100)))
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleScheduleDowntime(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := mcp.ParseString(request, "scope", "")
	if scope == "" {
		return mcp.NewToolResultError("scope parameter is required"), nil
	}

	start, err := datetime.ResolveParam(request, "start", "now")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := datetime.ResolveOptionalParam(request, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := datadog.DowntimeCreateRequest{
		Scope:    common.SplitCommaList(scope),
		Start:    start,
		End:      end,
		Message:  mcp.ParseString(request, "message", ""),
		Timezone: mcp.ParseString(request, "timezone", "UTC"),
	}
	if monitorID := mcp.ParseInt64(request, "monitor_id", 0); monitorID > 0 {
		payload.MonitorID = &monitorID
	}
	if monitorTags := mcp.ParseString(request, "monitor_tags", ""); monitorTags != "" {
		payload.MonitorTags = common.SplitCommaList(monitorTags)
	}

	var created datadog.Downtime
	if err := client.Post(ctx, "/api/v1/downtime", payload, &created); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Downtime %d scheduled\n", created.ID))
	sb.WriteString(fmt.Sprintf("Scope: %s\n", strings.Join(created.Scope, ", ")))
	sb.WriteString(fmt.Sprintf("Start: %s\n", datetime.FormatEpoch(created.Start)))
	if created.End != nil {
		sb.WriteString(fmt.Sprintf("End: %s\n", datetime.FormatEpoch(*created.End)))
	} else {
		sb.WriteString("End: none (open-ended)\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCancelDowntime(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	downtimeID := mcp.ParseInt64(request, "downtime_id", 0)
	if downtimeID <= 0 {
		return mcp.NewToolResultError("downtime_id parameter is required"), nil
	}

	if err := client.Delete(ctx, fmt.Sprintf("/api/v1/downtime/%d", downtimeID)); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Downtime %d canceled", downtimeID)), nil
}

func RegisterDowntimeTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("list_downtimes",
		mcp.WithDescription("List scheduled monitor downtimes"),
		mcp.WithBoolean("current_only", mcp.Description("Only return downtimes active right now")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListDowntimes(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("schedule_downtime",
		mcp.WithDescription("Schedule a monitor downtime for a scope"),
		mcp.WithString("scope", mcp.Description("Scope to silence, comma-separated (e.g. 'env:prod,service:web')"), mcp.Required()),
		mcp.WithString("start", mcp.Description("When the downtime starts, default now. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("end", mcp.Description("When the downtime ends; omit for open-ended. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("message", mcp.Description("Message included in downtime notifications")),
		mcp.WithString("timezone", mcp.Description("Timezone for the downtime (default UTC)")),
		mcp.WithNumber("monitor_id", mcp.Description("Single monitor to silence instead of a scope-wide downtime")),
		mcp.WithString("monitor_tags", mcp.Description("Monitor tags the downtime applies to, comma-separated")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleScheduleDowntime(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("cancel_downtime",
		mcp.WithDescription("Cancel a scheduled downtime by ID"),
		mcp.WithNumber("downtime_id", mcp.Description("ID of the downtime to cancel"), mcp.Required()),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCancelDowntime(ctx, client, request)
	})
}
