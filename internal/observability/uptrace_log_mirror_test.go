package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http request", map[string]any{"path": "/bdor/views/vw_1"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipUptraceLog("ranking fetch failed", map[string]any{"path": "/healthz"}) {
		t.Fatalf("did not expect other events to be skipped")
	}
}

func TestBuildOTelLogAttributes_SortedWithLoggerName(t *testing.T) {
	attrs := buildOTelLogAttributes("rankingview", map[string]any{
		"year":    int64(2024),
		"view_id": "vw_abc",
		"error":   nil,
	})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "logger" || attrs[0].Value.AsString() != "rankingview" {
		t.Fatalf("unexpected logger attribute: %v", attrs[0])
	}
	if attrs[1].Key != "error" || attrs[1].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected error attribute: %v", attrs[1])
	}
	if attrs[2].Key != "view_id" || attrs[2].Value.AsString() != "vw_abc" {
		t.Fatalf("unexpected view_id attribute: %v", attrs[2])
	}
	if attrs[3].Key != "year" || attrs[3].Value.AsInt64() != 2024 {
		t.Fatalf("unexpected year attribute: %v", attrs[3])
	}
}

func TestToOTelLogValue(t *testing.T) {
	if v := toOTelLogValue(map[string]any{"rank": 1, "clubs": "Real Madrid"}, 0); v.Kind() != otellog.KindMap || len(v.AsMap()) != 2 {
		t.Fatalf("expected 2 item map value, got %s", v.Kind())
	}
	if v := toOTelLogValue([]any{"a", int64(2)}, 0); v.Kind() != otellog.KindSlice || len(v.AsSlice()) != 2 {
		t.Fatalf("expected 2 item slice value, got %s", v.Kind())
	}
	if v := toOTelLogValue(errors.New("boom"), 0); v.AsString() != "boom" {
		t.Fatalf("unexpected error value: %v", v)
	}
	if v := toOTelLogValue(1500*time.Millisecond, 0); v.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value: %v", v)
	}
}

func TestUptraceLogCore_RespectsLevelAndKeepsFields(t *testing.T) {
	core := newUptraceLogCore("dev", logging.LevelWarn)
	if core.Enabled(logging.LevelInfo) {
		t.Fatalf("expected info to be filtered")
	}
	if !core.Enabled(logging.LevelError) {
		t.Fatalf("expected error to be enabled")
	}

	child, ok := core.With([]zapcore.Field{{Key: "view_id", Type: zapcore.StringType, String: "vw_1"}}).(*uptraceLogCore)
	if !ok {
		t.Fatalf("unexpected core type")
	}
	if len(child.fields) != 1 || child.fields[0].Key != "view_id" {
		t.Fatalf("unexpected inherited fields: %+v", child.fields)
	}
	if err := child.Write(zapcore.Entry{Level: logging.LevelError, Message: "ranking fetch failed", Time: time.Now()}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
}
