package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/raysh454/fraudeye/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line is not JSON: %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestStdoutLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewStdoutLogger("auth").SetOutput(&buf)

	l.Info("session saved", logging.Field{Key: "user", Value: "u1"})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["level"] != "info" || lines[0]["msg"] != "session saved" || lines[0]["component"] != "auth" {
		t.Errorf("unexpected entry: %v", lines[0])
	}
	fields := lines[0]["fields"].(map[string]any)
	if fields["user"] != "u1" {
		t.Errorf("expected user field, got %v", fields)
	}
}

func TestStdoutLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewStdoutLogger("x").SetOutput(&buf).SetLevel(logging.LevelWarn)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
}

func TestStdoutLogger_WithCarriesFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	root := logging.NewStdoutLogger("root").SetOutput(&buf)

	child := root.With(
		logging.Field{Key: "component", Value: "bridge"},
		logging.Field{Key: "context", Value: "background"},
	)
	child.Warn("relay failed", logging.Field{Key: "error", Value: errors.New("boom")})

	lines := decodeLines(t, &buf)
	if lines[0]["component"] != "bridge" {
		t.Errorf("expected component bridge, got %v", lines[0]["component"])
	}
	fields := lines[0]["fields"].(map[string]any)
	if fields["context"] != "background" || fields["error"] != "boom" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"INFO":    logging.LevelInfo,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
		"bogus":   logging.LevelInfo,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
