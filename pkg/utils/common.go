package utils

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/oskar-korczak/mcp-server-datadog/internal/logger"
)

var (
	tracer = otel.Tracer("mcp-server-datadog")
	meter  = otel.Meter("mcp-server-datadog")

	// Metrics
	apiRequestCounter  metric.Int64Counter
	apiRequestDuration metric.Float64Histogram
	apiRequestErrors   metric.Int64Counter
)

func init() {
	// Initialize metrics (these are safe to call even if OTEL is not configured)
	var err error

	apiRequestCounter, err = meter.Int64Counter(
		"datadog_api_requests_total",
		metric.WithDescription("Total number of Datadog API requests"),
	)
	if err != nil {
		logger.Get().Error("Failed to create API request counter", zap.Error(err))
	}

	apiRequestDuration, err = meter.Float64Histogram(
		"datadog_api_request_duration_seconds",
		metric.WithDescription("Duration of Datadog API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Get().Error("Failed to create API request duration histogram", zap.Error(err))
	}

	apiRequestErrors, err = meter.Int64Counter(
		"datadog_api_request_errors_total",
		metric.WithDescription("Total number of Datadog API request errors"),
	)
	if err != nil {
		logger.Get().Error("Failed to create API request errors counter", zap.Error(err))
	}
}

// DoRequest executes an HTTP request with OTEL tracing, reads the full
// response body, and treats any status >= 400 as an error carrying the
// status and body text.
func DoRequest(client *http.Client, req *http.Request) ([]byte, error) {
	ctx, span := tracer.Start(req.Context(), fmt.Sprintf("http.%s", req.Method))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.host", req.URL.Host),
		attribute.String("http.path", req.URL.Path),
	)

	startTime := time.Now()

	resp, err := client.Do(req.WithContext(ctx))

	duration := time.Since(startTime)

	attributes := []attribute.KeyValue{
		attribute.String("method", req.Method),
		attribute.String("endpoint", req.URL.Path),
		attribute.Bool("success", err == nil),
	}

	if apiRequestCounter != nil {
		apiRequestCounter.Add(ctx, 1, metric.WithAttributes(attributes...))
	}
	if apiRequestDuration != nil {
		apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attributes...))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if apiRequestErrors != nil {
			apiRequestErrors.Add(ctx, 1, metric.WithAttributes(attributes...))
		}

		logger.Get().Error("APIRequest failed",
			zap.String("method", req.Method),
			zap.String("endpoint", req.URL.Path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("response_size", len(body)),
	)

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)

		if apiRequestErrors != nil {
			apiRequestErrors.Add(ctx, 1, metric.WithAttributes(attributes...))
		}

		logger.Get().Error("APIRequest error status",
			zap.String("method", req.Method),
			zap.String("endpoint", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	span.SetStatus(codes.Ok, "APIRequest")

	logger.Get().Info("APIRequest",
		zap.String("method", req.Method),
		zap.String("endpoint", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.Int("responseSize", len(body)),
	)

	return body, nil
}
