package datadog

// Response shapes for the subset of the Datadog API surface the tools use.
// Fields not rendered by any tool are omitted.

// MetricsQueryResponse is the result of GET /api/v1/query.
type MetricsQueryResponse struct {
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	FromDate int64          `json:"from_date"`
	ToDate   int64          `json:"to_date"`
	Series   []MetricSeries `json:"series"`
}

// MetricSeries is one timeseries in a metrics query response. Pointlist
// entries are [timestamp_ms, value] pairs.
type MetricSeries struct {
	Metric      string          `json:"metric"`
	DisplayName string          `json:"display_name"`
	Scope       string          `json:"scope"`
	Unit        []MetricUnit    `json:"unit,omitempty"`
	Pointlist   [][]interface{} `json:"pointlist"`
}

type MetricUnit struct {
	Family string `json:"family"`
	Name   string `json:"name"`
}

// ListMetricsResponse is the result of GET /api/v1/metrics.
type ListMetricsResponse struct {
	Metrics []string `json:"metrics"`
	From    string   `json:"from"`
}

// LogsSearchRequest is the body of POST /api/v2/logs/events/search.
type LogsSearchRequest struct {
	Filter LogsSearchFilter `json:"filter"`
	Sort   string           `json:"sort,omitempty"`
	Page   *SearchPage      `json:"page,omitempty"`
}

type LogsSearchFilter struct {
	Query string `json:"query,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type SearchPage struct {
	Limit int `json:"limit,omitempty"`
}

// LogsSearchResponse is the result of POST /api/v2/logs/events/search.
type LogsSearchResponse struct {
	Data []LogEvent `json:"data"`
}

type LogEvent struct {
	ID         string        `json:"id"`
	Attributes LogAttributes `json:"attributes"`
}

type LogAttributes struct {
	Timestamp string   `json:"timestamp"`
	Host      string   `json:"host"`
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Tags      []string `json:"tags"`
}

// SpansSearchRequest is the body of POST /api/v2/spans/events/search.
type SpansSearchRequest struct {
	Data SpansSearchData `json:"data"`
}

type SpansSearchData struct {
	Type       string                `json:"type"`
	Attributes SpansSearchAttributes `json:"attributes"`
}

type SpansSearchAttributes struct {
	Filter SpansSearchFilter `json:"filter"`
	Sort   string            `json:"sort,omitempty"`
	Page   *SearchPage       `json:"page,omitempty"`
}

type SpansSearchFilter struct {
	Query string `json:"query,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// SpansSearchResponse is the result of POST /api/v2/spans/events/search.
type SpansSearchResponse struct {
	Data []SpanEvent `json:"data"`
}

type SpanEvent struct {
	ID         string         `json:"id"`
	Attributes SpanAttributes `json:"attributes"`
}

type SpanAttributes struct {
	TraceID       string                 `json:"trace_id"`
	SpanID        string                 `json:"span_id"`
	Service       string                 `json:"service"`
	ResourceName  string                 `json:"resource_name"`
	OperationName string                 `json:"operation_name"`
	StartTime     string                 `json:"start_timestamp"`
	EndTime       string                 `json:"end_timestamp"`
	Type          string                 `json:"type"`
	Custom        map[string]interface{} `json:"custom,omitempty"`
}

// Monitor is one entry of GET /api/v1/monitor.
type Monitor struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Query        string   `json:"query"`
	Message      string   `json:"message"`
	OverallState string   `json:"overall_state"`
	Tags         []string `json:"tags"`
	Created      string   `json:"created"`
	Modified     string   `json:"modified"`
}

// Downtime is the v1 downtime object, shared by list and schedule responses.
type Downtime struct {
	ID          int64    `json:"id"`
	Active      bool     `json:"active"`
	Disabled    bool     `json:"disabled"`
	Scope       []string `json:"scope"`
	Message     string   `json:"message"`
	MonitorID   *int64   `json:"monitor_id"`
	MonitorTags []string `json:"monitor_tags"`
	Start       int64    `json:"start"`
	End         *int64   `json:"end"`
	Timezone    string   `json:"timezone"`
}

// DowntimeCreateRequest is the body of POST /api/v1/downtime.
type DowntimeCreateRequest struct {
	Scope       []string `json:"scope"`
	Start       int64    `json:"start"`
	End         *int64   `json:"end,omitempty"`
	Message     string   `json:"message,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	MonitorID   *int64   `json:"monitor_id,omitempty"`
	MonitorTags []string `json:"monitor_tags,omitempty"`
}

// MonitorMuteRequest is the body of POST /api/v1/monitor/{id}/mute.
type MonitorMuteRequest struct {
	Scope string `json:"scope,omitempty"`
	End   *int64 `json:"end,omitempty"`
}

// MonitorUnmuteRequest is the body of POST /api/v1/monitor/{id}/unmute.
type MonitorUnmuteRequest struct {
	Scope string `json:"scope,omitempty"`
}

// EventsResponse is the result of GET /api/v1/events.
type EventsResponse struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Text         string   `json:"text"`
	DateHappened int64    `json:"date_happened"`
	AlertType    string   `json:"alert_type"`
	Priority     string   `json:"priority"`
	Host         string   `json:"host"`
	Source       string   `json:"source"`
	Tags         []string `json:"tags"`
	URL          string   `json:"url"`
}

// EventCreateRequest is the body of POST /api/v1/events.
type EventCreateRequest struct {
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	AlertType string   `json:"alert_type,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// EventCreateResponse is the result of POST /api/v1/events.
type EventCreateResponse struct {
	Status string `json:"status"`
	Event  Event  `json:"event"`
}
