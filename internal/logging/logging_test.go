package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "langbench.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("[LOAD] hello %s", "world")
	LogArtifact("table", "out/ACCURACY_TABLE.md", 42, nil)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[LOAD] hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[WRITE] kind=TABLE path=out/ACCURACY_TABLE.md bytes=42") {
		t.Fatalf("expected LogArtifact content, got: %s", content)
	}
}

func TestLogDebugHonorsToggle(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		SetDebug(false)
		log.SetOutput(os.Stderr)
	})

	LogDebug("hidden")
	SetDebug(true)
	LogDebug("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug output suppressed while disabled, got: %s", out)
	}
	if !strings.Contains(out, "[DEBUG] shown 1") {
		t.Fatalf("expected debug output, got: %s", out)
	}
}

func TestBuildArtifactMessageDefaults(t *testing.T) {
	msg := buildArtifactMessage(" chart ", " ", 7, map[string]any{"ok": true})
	if !strings.Contains(msg, "kind=CHART") {
		t.Fatalf("expected uppercased kind, got: %s", msg)
	}
	if !strings.Contains(msg, "path=unknown") {
		t.Fatalf("expected default path, got: %s", msg)
	}
	if !strings.Contains(msg, "detail={\"ok\":true}") {
		t.Fatalf("expected detail json, got: %s", msg)
	}
	if got := buildArtifactMessage("", "a", 0, nil); strings.Contains(got, "detail=") || !strings.Contains(got, "kind=FILE") {
		t.Fatalf("unexpected message without detail: %s", got)
	}
}

func TestFormatDetailVariants(t *testing.T) {
	if got := formatDetail(" "); got != `""` {
		t.Fatalf("empty string detail: %s", got)
	}
	if got := formatDetail([]byte("hi")); got != "hi" {
		t.Fatalf("byte detail: %s", got)
	}
	if got := formatDetail(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer detail: %s", got)
	}
	if got := formatDetail(3); got != "3" {
		t.Fatalf("number detail: %s", got)
	}
}

func TestQuietDiscards(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	Quiet()
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output discarded, got: %s", buf.String())
	}
}
