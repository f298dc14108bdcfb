package logs

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oskar-korczak/mcp-server-datadog/internal/common"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datadog"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datetime"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

func handleSearchLogs(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := mcp.ParseString(request, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	from, err := datetime.ResolveParam(request, "from", "now-1h")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := datetime.ResolveParam(request, "to", "now")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := common.LimitOrDefault(mcp.ParseInt(request, "limit", defaultLimit), defaultLimit, maxLimit)

	sort := "-timestamp"
	if mcp.ParseString(request, "sort", "desc") == "asc" {
		sort = "timestamp"
	}

	payload := datadog.LogsSearchRequest{
		Filter: datadog.LogsSearchFilter{
			Query: query,
			From:  datetime.FormatEpoch(from),
			To:    datetime.FormatEpoch(to),
		},
		Sort: sort,
		Page: &datadog.SearchPage{Limit: limit},
	}

	var result datadog.LogsSearchResponse
	if err := client.Post(ctx, "/api/v2/logs/events/search", payload, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Logs for query: %s\n", query))
	sb.WriteString(fmt.Sprintf("Window: %s to %s\n", datetime.FormatEpoch(from), datetime.FormatEpoch(to)))
	sb.WriteString(fmt.Sprintf("Results: %d\n\n", len(result.Data)))

	for _, log := range result.Data {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", log.Attributes.Timestamp, log.Attributes.Service))
		sb.WriteString(fmt.Sprintf("  Host: %s | Status: %s\n", log.Attributes.Host, log.Attributes.Status))
		sb.WriteString(fmt.Sprintf("  Message: %s\n\n", common.Truncate(log.Attributes.Message, 200)))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func RegisterLogsTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("search_logs",
		mcp.WithDescription("Search Datadog logs within a time window"),
		mcp.WithString("query", mcp.Description("Log search query in Datadog log search syntax (e.g. 'service:web status:error')"), mcp.Required()),
		mcp.WithString("from", mcp.Description("Start of the time window, default now-1h. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("to", mcp.Description("End of the time window, default now. Accepts "+datetime.SupportedFormats)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return, 1-1000 (default 50)")),
		mcp.WithString("sort", mcp.Description("Sort order by timestamp: asc or desc (default desc)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchLogs(ctx, client, request)
	})
}
