package datetime

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oskar-korczak/mcp-server-datadog/internal/common"
)

// ResolveParam reads a time expression argument from a tool request and
// resolves it to epoch seconds against a fresh clock reading. def applies
// when the argument is absent or empty.
func ResolveParam(request mcp.CallToolRequest, key, def string) (int64, error) {
	value, ok := request.GetArguments()[key]
	if !ok || value == nil || value == "" {
		value = def
	}
	sec, err := ResolveValue(value, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return sec, nil
}

// ResolveOptionalParam is ResolveParam for arguments with no default: an
// absent or empty argument yields nil rather than a resolved instant.
func ResolveOptionalParam(request mcp.CallToolRequest, key string) (*int64, error) {
	value, ok := request.GetArguments()[key]
	if !ok || value == nil || value == "" {
		return nil, nil
	}
	sec, err := ResolveValue(value, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &sec, nil
}

// FormatEpoch renders epoch seconds as the RFC3339 UTC string the v2 search
// APIs take in time range filters.
func FormatEpoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func handleCurrentTimeTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	return mcp.NewToolResultText(fmt.Sprintf("%d (%s)", now.Unix(), now.UTC().Format(time.RFC3339))), nil
}

func handleResolveTimeTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expression := mcp.ParseString(request, "expression", "")
	if expression == "" {
		return mcp.NewToolResultError("expression parameter is required"), nil
	}

	sec, err := Resolve(expression, time.Now().Unix())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%d (%s)", sec, FormatEpoch(sec))), nil
}

func RegisterDateTimeTools(s common.ToolServer) {
	s.AddTool(mcp.NewTool("current_time",
		mcp.WithDescription("Get the current time as epoch seconds and ISO 8601"),
	), handleCurrentTimeTool)

	s.AddTool(mcp.NewTool("resolve_time",
		mcp.WithDescription("Resolve a flexible time expression to epoch seconds"),
		mcp.WithString("expression", mcp.Description("Time expression to resolve. Accepts "+SupportedFormats), mcp.Required()),
	), handleResolveTimeTool)
}
