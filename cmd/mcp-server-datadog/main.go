package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oskar-korczak/mcp-server-datadog/internal/common"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datadog"
	"github.com/oskar-korczak/mcp-server-datadog/internal/datetime"
	"github.com/oskar-korczak/mcp-server-datadog/internal/downtimes"
	"github.com/oskar-korczak/mcp-server-datadog/internal/events"
	"github.com/oskar-korczak/mcp-server-datadog/internal/logger"
	"github.com/oskar-korczak/mcp-server-datadog/internal/logs"
	"github.com/oskar-korczak/mcp-server-datadog/internal/metrics"
	"github.com/oskar-korczak/mcp-server-datadog/internal/monitors"
	"github.com/oskar-korczak/mcp-server-datadog/internal/telemetry"
	"github.com/oskar-korczak/mcp-server-datadog/internal/traces"
)

const (
	serverName    = "mcp-server-datadog"
	serverVersion = "0.1.0"
)

func main() {
	logger.Init()
	defer logger.Sync()

	shutdownTelemetry, err := telemetry.InitTelemetry(context.Background())
	if err != nil {
		logger.Get().Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer shutdownTelemetry()

	config := datadog.NewConfigFromEnv()
	if config.APIKey == "" || config.AppKey == "" {
		logger.Get().Warn("DD_API_KEY or DD_APPLICATION_KEY not set, Datadog API tools will fail")
	}
	client := datadog.NewClient(config)

	srv := telemetry.NewInstrumentedMCPServer(serverName, serverVersion)
	RegisterMCP(srv, client)

	if os.Getenv("DATADOG_MCP_TRANSPORT") == "stdio" {
		logger.Get().Info("Serving MCP over stdio")
		if err := server.ServeStdio(srv.MCPServer); err != nil {
			logger.Get().Fatal("Stdio server failed", zap.Error(err))
		}
		return
	}

	port := os.Getenv("DATADOG_MCP_PORT")
	if port == "" {
		port = ":8080" // Default port if not set
	}

	sseServer := server.NewSSEServer(srv.MCPServer)

	errChan := make(chan error, 1)
	go func() {
		errChan <- sseServer.Start(port)
	}()
	logger.Get().Info("Serving MCP over SSE", zap.String("addr", port))

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		logger.Get().Info("Shutting down", zap.String("signal", sig.String()))
		if err := sseServer.Shutdown(context.Background()); err != nil {
			logger.Get().Error("Shutdown failed", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatal("SSE server failed", zap.Error(err))
		}
	}
}

// RegisterMCP registers every tool package on the server.
func RegisterMCP(srv common.ToolServer, client *datadog.Client) {
	datetime.RegisterDateTimeTools(srv)
	logs.RegisterLogsTools(srv, client)
	traces.RegisterTracesTools(srv, client)
	metrics.RegisterMetricsTools(srv, client)
	downtimes.RegisterDowntimeTools(srv, client)
	monitors.RegisterMonitorTools(srv, client)
	events.RegisterEventsTools(srv, client)
}
