package metrics

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

// recentPoints caps how many trailing datapoints each series renders.
const recentPoints = 5

func handleQueryMetrics(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	params := url.Values{}
	params.Set("query", query)
	params.Set("from", fmt.Sprintf("%d", from))
	params.Set("to", fmt.Sprintf("%d", to))

	var result datadog.MetricsQueryResponse
	if err := client.Get(ctx, "/api/v1/query", params, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}
	if result.Error != "" {
		return mcp.NewToolResultError("Datadog query error: " + result.Error), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Metrics query: %s\n", query))
	sb.WriteString(fmt.Sprintf("Status: %s\n\n", result.Status))

	for _, series := range result.Series {
		sb.WriteString(fmt.Sprintf("Series: %s\n", series.DisplayName))
		sb.WriteString(fmt.Sprintf("  Scope: %s\n", series.Scope))
		sb.WriteString(fmt.Sprintf("  Points: %d\n", len(series.Pointlist)))
		if len(series.Pointlist) > 0 {
			sb.WriteString("  Recent values:\n")
			start := len(series.Pointlist) - recentPoints
			if start < 0 {
				start = 0
			}
			for _, point := range series.Pointlist[start:] {
				if len(point) < 2 {
					continue
				}
				// Pointlist timestamps are milliseconds; values may be null.
				ts, tsOK := point[0].(float64)
				val, valOK := point[1].(float64)
				if !tsOK || !valOK {
					continue
				}
				sb.WriteString(fmt.Sprintf("    %s: %.2f\n", time.Unix(int64(ts)/1000, 0).UTC().Format(time.RFC3339), val))
			}
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListMetrics(ctx context.Context, client *datadog.Client, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := datetime.ResolveParam(request, "from", "now-1h")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	params.Set("from", fmt.Sprintf("%d", from))
	if host := mcp.ParseString(request, "host", ""); host != "" {
		params.Set("host", host)
	}
	if tagFilter := mcp.ParseString(request, "tag_filter", ""); tagFilter != "" {
		params.Set("tag_filter", tagFilter)
	}

	var result datadog.ListMetricsResponse
	if err := client.Get(ctx, "/api/v1/metrics", params, &result); err != nil {
		return mcp.NewToolResultError("Datadog API request failed: " + err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Metrics active since %s (%d):\n\n", datetime.FormatEpoch(from), len(result.Metrics)))
	for _, metric := range result.Metrics {
		sb.WriteString(fmt.Sprintf("- %s\n", metric))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func RegisterMetricsTools(s common.ToolServer, client *datadog.Client) {
	s.AddTool(mcp.NewTool("query_metrics",
		mcp.WithDescription("Run a Datadog timeseries metrics query over a time window"),
		mcp.WithString("query", mcp.Description("Metrics query (e.g. 'avg:system.cpu.user{*}')"), mcp.Required()),
		mcp.WithString("from", mcp.Description("Start of the time window, default now-1h. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("to", mcp.Description("End of the time window, default now. Accepts "+datetime.SupportedFormats)),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQueryMetrics(ctx, client, request)
	})

	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List metrics actively reporting since a point in time"),
		mcp.WithString("from", mcp.Description("List metrics active since this time, default now-1h. Accepts "+datetime.SupportedFormats)),
		mcp.WithString("host", mcp.Description("Only metrics reported by this hostname")),
		mcp.WithString("tag_filter", mcp.Description("Only metrics carrying these tags (e.g. 'env:prod,region:us-east-1')")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListMetrics(ctx, client, request)
	})
}
