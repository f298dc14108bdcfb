package common

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolServer is the part of the MCP server the tool packages register
// against. Both *server.MCPServer and the instrumented wrapper in
// internal/telemetry satisfy it.
type ToolServer interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// LimitOrDefault normalizes a page limit: non-positive values fall back to
// def, values above max are capped.
func LimitOrDefault(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Truncate shortens s to at most n bytes, appending "..." when cut.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// SplitCommaList splits a comma-separated argument into trimmed, non-empty
// entries.
func SplitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
