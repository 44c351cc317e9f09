package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestProductionLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.StatusTransition("p-1", "ON_MARKET", "VISITS", "visit_added")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q", buf.String())
	}
	if entry["msg"] != "sale_status_transition" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["to"] != "VISITS" || entry["event"] != "visit_added" {
		t.Fatalf("missing transition attributes: %v", entry)
	}
}

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, UserIDKey, "user-7")
	log.WithContext(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "user_id=user-7") {
		t.Fatalf("expected context attributes in %q", out)
	}
}
