package telemetry

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	mcpTracer = otel.Tracer("mcp-server-datadog")
	mcpMeter  = otel.Meter("mcp-server-datadog")

	// MCP-specific metrics
	mcpToolCallsCounter metric.Int64Counter
	mcpToolCallDuration metric.Float64Histogram
	mcpToolCallErrors   metric.Int64Counter
	mcpActiveToolCalls  metric.Int64UpDownCounter
)

func init() {
	// Initialize MCP metrics
	var err error

	mcpToolCallsCounter, err = mcpMeter.Int64Counter(
		"mcp_tool_calls_total",
		metric.WithDescription("Total number of MCP tool calls"),
	)
	if err != nil {
		// Log error but continue - metrics are optional
	}

	mcpToolCallDuration, err = mcpMeter.Float64Histogram(
		"mcp_tool_call_duration_seconds",
		metric.WithDescription("Duration of MCP tool calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		// Log error but continue - metrics are optional
	}

	mcpToolCallErrors, err = mcpMeter.Int64Counter(
		"mcp_tool_call_errors_total",
		metric.WithDescription("Total number of MCP tool call errors"),
	)
	if err != nil {
		// Log error but continue - metrics are optional
	}

	mcpActiveToolCalls, err = mcpMeter.Int64UpDownCounter(
		"mcp_active_tool_calls",
		metric.WithDescription("Number of MCP tool calls currently in flight"),
	)
	if err != nil {
		// Log error but continue - metrics are optional
	}
}

// InstrumentedMCPServer wraps an MCP server with OpenTelemetry instrumentation
type InstrumentedMCPServer struct {
	*server.MCPServer
	originalAddTool func(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// NewInstrumentedMCPServer creates a new instrumented MCP server
func NewInstrumentedMCPServer(name, version string) *InstrumentedMCPServer {
	mcpServer := server.NewMCPServer(name, version)

	instrumented := &InstrumentedMCPServer{
		MCPServer: mcpServer,
	}

	// Store the original AddTool method
	instrumented.originalAddTool = mcpServer.AddTool

	return instrumented
}

// AddTool wraps the original AddTool method with OpenTelemetry instrumentation
func (s *InstrumentedMCPServer) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	// Wrap the handler with instrumentation
	instrumentedHandler := s.instrumentToolHandler(tool.Name, handler)

	// Call the original AddTool method with the instrumented handler
	s.originalAddTool(tool, instrumentedHandler)
}

// instrumentToolHandler wraps a tool handler with OpenTelemetry tracing and metrics
func (s *InstrumentedMCPServer) instrumentToolHandler(toolName string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Start tracing span
		ctx, span := mcpTracer.Start(ctx, "mcp.tool_call",
			trace.WithAttributes(
				attribute.String("tool.name", toolName),
				attribute.String("mcp.operation", "tool_call"),
			),
		)
		defer span.End()

		startTime := time.Now()

		// Increment tool calls counter
		if mcpToolCallsCounter != nil {
			mcpToolCallsCounter.Add(ctx, 1,
				metric.WithAttributes(
					attribute.String("tool_name", toolName),
				),
			)
		}

		// Track in-flight calls
		if mcpActiveToolCalls != nil {
			mcpActiveToolCalls.Add(ctx, 1, metric.WithAttributes(
				attribute.String("tool_name", toolName),
			))
			defer mcpActiveToolCalls.Add(ctx, -1, metric.WithAttributes(
				attribute.String("tool_name", toolName),
			))
		}

		span.SetAttributes(
			attribute.Int("request.argument_count", len(request.GetArguments())),
		)

		// Call the original handler
		result, err := handler(ctx, request)

		// Record duration
		duration := time.Since(startTime)
		if mcpToolCallDuration != nil {
			mcpToolCallDuration.Record(ctx, duration.Seconds(),
				metric.WithAttributes(
					attribute.String("tool_name", toolName),
				),
			)
		}

		// Handle errors
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			// Increment error counter
			if mcpToolCallErrors != nil {
				mcpToolCallErrors.Add(ctx, 1,
					metric.WithAttributes(
						attribute.String("tool_name", toolName),
						attribute.String("error_type", "handler_error"),
					),
				)
			}

			span.SetAttributes(
				attribute.Bool("tool.success", false),
				attribute.String("tool.error", err.Error()),
			)

			return result, err
		}

		// Handle tool result errors (when err is nil but result contains an error)
		if result != nil && result.IsError {
			span.SetAttributes(
				attribute.Bool("tool.success", false),
				attribute.String("tool.result_type", "error"),
			)

			// Increment error counter for tool result errors
			if mcpToolCallErrors != nil {
				mcpToolCallErrors.Add(ctx, 1,
					metric.WithAttributes(
						attribute.String("tool_name", toolName),
						attribute.String("error_type", "tool_result_error"),
					),
				)
			}

			span.SetStatus(codes.Error, "Tool returned error result")
		} else {
			span.SetAttributes(
				attribute.Bool("tool.success", true),
				attribute.String("tool.result_type", "success"),
			)
			span.SetStatus(codes.Ok, "Tool call successful")
		}

		// Add result metadata to span
		if result != nil {
			span.SetAttributes(
				attribute.Bool("result.is_error", result.IsError),
			)

			if len(result.Content) > 0 {
				span.SetAttributes(
					attribute.Int("result.content_count", len(result.Content)),
				)
			}
		}

		return result, err
	}
}
