package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.Level())
	}

	if logger.config.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatJSON {
		t.Errorf("expected default format JSON, got %v", logger.Format())
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	logger.Info("ignored", slog.String("k", "v"))

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v, want %v", logger.Level(), DefaultLevel)
	}

	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero logger should stay zero")
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug), WithPretty(false))
	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError), WithPretty(false))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_RendersTraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))
	logger.Trace("deep detail")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}
}

func TestLogger_JSON_Attributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithTimeLayout("none")).
		With(slog.String("component", "roll"))
	logger.Info("built", slog.Int("parcels", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if _, ok := rec["time"]; ok {
		t.Error("time should be omitted with layout none")
	}

	if rec["component"] != "roll" {
		t.Errorf("component = %v, want roll", rec["component"])
	}

	if rec["parcels"] != float64(3) {
		t.Errorf("parcels = %v, want 3", rec["parcels"])
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithCaller(true))
	logger.Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got %s", buf.String())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", "malformed"), slog.Int("line", 7))
}

func TestPretty_Text_FlattensGroupsAndValuers(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithTimeLayout(""),
	)
	logger.Warn("failed",
		slog.Any("error", valuer{}),
		slog.Bool("fatal", true),
		slog.Any("cause", errors.New("boom")),
	)

	out := buf.String()

	for _, want := range []string{
		"level=WARN",
		"msg=failed",
		"error.error=malformed",
		"error.line=7",
		"fatal=true",
		"cause=boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	if strings.Count(out, "\n") != 1 {
		t.Errorf("text output should be one line, got %q", out)
	}
}

func TestPretty_JSON_Block(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none")).
		With(slog.String("source_name", "roll.txt"))
	logger.Info("loaded", slog.Int("parcels", 2))

	out := buf.String()

	if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("expected block layout, got %q", out)
	}

	for _, want := range []string{"  msg: loaded", "  source_name: roll.txt", "  parcels: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestPretty_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	grouped := Logger{
		Logger: slog.New(logger.Handler().WithGroup("scan")),
		config: logger.config,
	}
	grouped.Info("done", slog.Int("segments", 4))

	if !strings.Contains(buf.String(), "scan.segments=4") {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}

func TestLogger_ConcurrentLogging(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithPretty(false))

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.Info("concurrent", slog.Int("i", i))
		}()
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 records, got %d", got)
	}
}

func TestDefaultLogger_Config(t *testing.T) {
	var buf bytes.Buffer

	prev := SetDefault(Make(&buf, WithPretty(false)))
	defer SetDefault(prev)

	Config(WithLevel(LevelDebug))
	Debug("package debug", slog.String("key", "value"))

	out := buf.String()
	if !strings.Contains(out, "package debug") || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("default logger output %q", out)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
