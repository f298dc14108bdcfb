package traces

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

func handleListTraces(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	sort := mcp.ParseString(request, "sort", "-timestamp")

	payload := datadog.SpansSearchRequest{
		Data: datadog.SpansSearchData{
			Type: "search_request",
			Attributes: datadog.SpansSearchAttributes{
				Filter: datadog.SpansSearchFilter{
					Query: query,
					From:  datetime.FormatEpoch(from),
					To:    datetime.FormatEpoch(to),
				},
				Sort: sort,
				Page: &datadog.SearchPage{Limit: limit},
			},
		},
	}

	var result datadog.SpansSearchResponse
	if err := client.Post(ctx, "/api/v2/spans/events/search", payload, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Spans for query: %s\n", query))
	sb.WriteString(fmt.Sprintf("Window: %s to %s\n", datetime.FormatEpoch(from), datetime.FormatEpoch(to)))
	sb.WriteString(fmt.Sprintf("Results: %d\n\n", len(result.Data)))

	for _, span := range result.Data {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", span.Attributes.StartTime, span.Attributes.Service))
		sb.WriteString(fmt.Sprintf("  Resource: %s\n", common.Truncate(span.Attributes.ResourceName, 120)))
		sb.WriteString(fmt.Sprintf("  Operation: %s\n", span.Attributes.OperationName))
		sb.WriteString(fmt.Sprintf("  Trace ID: %s\n\n", span.Attributes.TraceID))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func RegisterTracesTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("list_traces",
		mcp.WithDescription("Search Datadog APM spans within a time window"),
		mcp.WithString("query", mcp.Description("Span search query in Datadog APM search syntax (e.g. 'service:checkout status:error')"), mcp.Required()),
		mcp.WithString("from", mcp.Description("Start of the time window, default now-1h. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("to", mcp.Description("End of the time window, default now. Accepts "+datetime.SupportedFormats)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of spans to return, 1-1000 (default 50)")),
		mcp.WithString("sort", mcp.Description("Sort order: timestamp or -timestamp (default -timestamp)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListTraces(ctx, client, request)
	})
}
