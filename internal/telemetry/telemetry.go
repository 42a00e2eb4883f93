// Package telemetry carries the correlation/eval context for a request and
// emits the structured phase events every service writes at its boundaries.
package telemetry

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Propagation headers. Correlation ids are generated when absent and echoed
// back on every response; eval ids are propagated untouched when present.
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderEvalRunID     = "X-Eval-Run-ID"
	HeaderEvalTraceID   = "X-Eval-Trace-ID"
)

// Correlation is the per-request identity propagated end to end.
type Correlation struct {
	CorrelationID string
	EvalRunID     string
	EvalTraceID   string
}

// FromRequest extracts the correlation context from incoming headers,
// generating a fresh correlation id when the caller sent none.
func FromRequest(r *http.Request) Correlation {
	c := Correlation{
		CorrelationID: strings.TrimSpace(r.Header.Get(HeaderCorrelationID)),
		EvalRunID:     strings.TrimSpace(r.Header.Get(HeaderEvalRunID)),
		EvalTraceID:   strings.TrimSpace(r.Header.Get(HeaderEvalTraceID)),
	}
	if c.CorrelationID == "" {
		c.CorrelationID = uuid.NewString()
	}
	return c
}

// HasEvalContext reports whether this request belongs to an eval run.
func (c Correlation) HasEvalContext() bool {
	return c.EvalRunID != "" || c.EvalTraceID != ""
}

// Apply copies the context onto outbound headers.
func (c Correlation) Apply(h http.Header) {
	if c.CorrelationID != "" {
		h.Set(HeaderCorrelationID, c.CorrelationID)
	}
	if c.EvalRunID != "" {
		h.Set(HeaderEvalRunID, c.EvalRunID)
	}
	if c.EvalTraceID != "" {
		h.Set(HeaderEvalTraceID, c.EvalTraceID)
	}
}

type ctxKey struct{}

// WithCorrelation stores the correlation context on ctx.
func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CorrelationFrom returns the correlation context stored on ctx, generating a
// new correlation id when none was stored.
func CorrelationFrom(ctx context.Context) Correlation {
	if c, ok := ctx.Value(ctxKey{}).(Correlation); ok {
		return c
	}
	return Correlation{CorrelationID: uuid.NewString()}
}

// NewLogger builds the service logger all packages share.
func NewLogger(service string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          service,
	})
}

// Emitter writes phase-boundary events. When logOperational is false, events
// from requests with no eval context are dropped to reduce noise.
type Emitter struct {
	logger         *log.Logger
	service        string
	logOperational bool
}

func NewEmitter(logger *log.Logger, service string, logOperational bool) *Emitter {
	return &Emitter{logger: logger, service: service, logOperational: logOperational}
}

// Emit writes one structured event. Fixed fields first, then caller keyvals.
func (e *Emitter) Emit(c Correlation, phase, status, message string, durationMS int64, keyvals ...any) {
	if e == nil || e.logger == nil {
		return
	}
	if !e.logOperational && !c.HasEvalContext() {
		return
	}
	kv := []any{
		"service", e.service,
		"phase", phase,
		"correlation_id", c.CorrelationID,
		"status", status,
		"duration_ms", durationMS,
	}
	if c.EvalRunID != "" {
		kv = append(kv, "run_id", c.EvalRunID)
	}
	if c.EvalTraceID != "" {
		kv = append(kv, "trace_id", c.EvalTraceID)
	}
	kv = append(kv, keyvals...)
	if phase == "tool_error" || status == "error" {
		e.logger.Error(message, kv...)
		return
	}
	e.logger.Info(message, kv...)
}

// Middleware attaches the correlation context to the request, echoes the
// correlation id on the response, and emits request start/end events.
func Middleware(e *Emitter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := FromRequest(r)
		w.Header().Set(HeaderCorrelationID, c.CorrelationID)

		start := time.Now()
		e.Emit(c, "request_start", "ok", "request received", 0,
			"method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(WithCorrelation(r.Context(), c)))

		e.Emit(c, "request_end", "ok", "request handled",
			time.Since(start).Milliseconds(),
			"method", r.Method, "path", r.URL.Path)
	})
}
