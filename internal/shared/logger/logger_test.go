package logger

import (
	"bytes"
	"errors"
	"proxycheck/internal/shared/types"
	"strings"
	"testing"
	"time"
)

func TestWithComponent_TagsOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "debug"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned an error: %v", err)
	}

	l := WithComponent("ProxyPool/Test")
	l.Info().Str("proxy", "1.2.3.4:80").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "ProxyPool/Test") || !strings.Contains(out, "hello") || !strings.Contains(out, "1.2.3.4:80") {
		t.Errorf("Expected component, message and field in output, but got %q", out)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "warn"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned an error: %v", err)
	}

	Info().Msg("should be dropped")
	Warn().Int("count", 3).Msg("kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("Expected info message to be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Expected warn message in output, but got %q", out)
	}
}

func TestInit_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "chatty"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned an error: %v", err)
	}
	Debug().Msg("debug hidden")
	Info().Msg("info shown")

	out := buf.String()
	if strings.Contains(out, "debug hidden") || !strings.Contains(out, "info shown") {
		t.Errorf("Expected info level, but got %q", out)
	}
}

func TestEvent_FieldsAndDuration(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(types.LogConf{Level: "info"}, &buf); err != nil {
		t.Fatalf("InitWithWriter() returned an error: %v", err)
	}

	Error().Err(errors.New("boom")).Str("input", "in.txt").Dur("elapsed", 1500*time.Millisecond).Msg("run failed")

	out := buf.String()
	for _, want := range []string{"run failed", "boom", "in.txt", "elapsed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, but got %q", want, out)
		}
	}
}
