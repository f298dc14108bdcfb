package events

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oskar-korczak/mcp-server-datadog/internal/common"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datadog"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datetime"
)

func handleListEvents(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := datetime.ResolveParam(request, "start", "now-1d")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := datetime.ResolveParam(request, "end", "now")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	params.Set("start", fmt.Sprintf("%d", start))
	params.Set("end", fmt.Sprintf("%d", end))
	if priority := mcp.ParseString(request, "priority", ""); priority != "" {
		params.Set("priority", priority)
	}
	if sources := mcp.ParseString(request, "sources", ""); sources != "" {
		params.Set("sources", sources)
	}
	if tags := mcp.ParseString(request, "tags", ""); tags != "" {
		params.Set("tags", tags)
	}
	if mcp.ParseBoolean(request, "unaggregated", false) {
		params.Set("unaggregated", "true")
	}

	var result datadog.EventsResponse
	if err := client.Get(ctx, "/api/v1/events", params, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Events from %s to %s (%d):\n\n",
		datetime.FormatEpoch(start), datetime.FormatEpoch(end), len(result.Events)))

	for _, event := range result.Events {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", event.AlertType, event.Title))
		sb.WriteString(fmt.Sprintf("  ID: %d\n", event.ID))
		sb.WriteString(fmt.Sprintf("  Date: %s\n", time.Unix(event.DateHappened, 0).UTC().Format(time.RFC3339)))
		if event.Text != "" {
			sb.WriteString(fmt.Sprintf("  Text: %s\n", common.Truncate(event.Text, 100)))
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handlePostEvent(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := mcp.ParseString(request, "title", "")
	if title == "" {
		return mcp.NewToolResultError("title parameter is required"), nil
	}
	text := mcp.ParseString(request, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	payload := datadog.EventCreateRequest{
		Title:     title,
		Text:      text,
		AlertType: mcp.ParseString(request, "alert_type", "info"),
		Priority:  mcp.ParseString(request, "priority", "normal"),
	}
	if tags := mcp.ParseString(request, "tags", ""); tags != "" {
		payload.Tags = common.SplitCommaList(tags)
	}

	var result datadog.EventCreateResponse
	if err := client.Post(ctx, "/api/v1/events", payload, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event created (ID: %d)", result.Event.ID)), nil
}

func RegisterEventsTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List events from the Datadog event stream within a time window"),
		mcp.WithString("start", mcp.Description("Start of the time window, default now-1d. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("end", mcp.Description("End of the time window, default now. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("priority", mcp.Description("Only events with this priority: normal or low")),
		mcp.WithString("sources", mcp.Description("Only events from these sources, comma-separated")),
		mcp.WithString("tags", mcp.Description("Only events with these tags, comma-separated")),
		mcp.WithBoolean("unaggregated", mcp.Description("Return every event instead of aggregated groups")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("post_event",
		mcp.WithDescription("Post an event to the Datadog event stream"),
		mcp.WithString("title", mcp.Description("Event title"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Event body text"), mcp.Required()),
		mcp.WithString("alert_type", mcp.Description("Event alert type: error, warning, info, or success (default info)")),
		mcp.WithString("priority", mcp.Description("Event priority: normal or low (default normal)")),
		mcp.WithString("tags", mcp.Description("Tags to attach, comma-separated (e.g. 'env:prod,team:sre')")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePostEvent(ctx, client, request)
	})
}
