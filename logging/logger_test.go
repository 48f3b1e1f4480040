package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry() *LogEntry {
	return &LogEntry{
		Time:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:    LogLevelInfo,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{{Key: "key", Value: "val"}},
	}
}

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()

	out, err := f.Format(newEntry())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02 03:04:05 INFO [Test] Hello {key=val}\n", string(out))
}

func TestTextFormatter_NoTimestamp(t *testing.T) {
	f := NewTextFormatter()
	f.IncludeTimestamp = false
	entry := newEntry()
	entry.Category = ""
	entry.Fields = nil

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO Hello\n", string(out))
}

func TestTextFormatter_Color(t *testing.T) {
	f := NewTextFormatter()
	f.ColorOutput = true

	out, err := f.Format(newEntry())
	require.NoError(t, err)
	assert.Contains(t, string(out), "\x1b[")
	assert.Contains(t, string(out), "INFO")
}

func TestJsonFormatter(t *testing.T) {
	f := NewJsonFormatter()

	out, err := f.Format(newEntry())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "\n"))

	var data map[string]any
	require.NoError(t, json.Unmarshal(out, &data))
	assert.Equal(t, "INFO", data["level"])
	assert.Equal(t, "Test", data["category"])
	assert.Equal(t, "Hello", data["msg"])
	assert.Equal(t, map[string]any{"key": "val"}, data["fields"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   LogLevelTrace,
		"DEBUG":   LogLevelDebug,
		"":        LogLevelInfo,
		" info ":  LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"Fatal":   LogLevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestConsoleLogger_MinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		SetMinimumLevel(LogLevelWarn).
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build()

	logger := factory.CreateLogger("app")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("also shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN [app] shown", lines[0])
	assert.Equal(t, "ERROR [app] also shown", lines[1])
}

func TestConsoleLogger_FieldsAndCategory(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build()

	base := factory.CreateLogger("app").WithFields(Field{Key: "a", Value: 1})
	base.WithCategory("di").Info("registered", Field{Key: "b", Value: 2})
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "INFO [di] registered {a=1, b=2}", lines[0])
	assert.Equal(t, "INFO [app] plain {a=1}", lines[1])
}

func TestConsoleLogger_JsonFormatter(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf, Formatter: NewJsonFormatter()}).
		Build()

	factory.CreateLogger("app").Info("hello")

	var data map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "app", data["category"])
	assert.Equal(t, "hello", data["msg"])
}

func TestLoggingBuilder_ProviderCount(t *testing.T) {
	builder := NewLoggingBuilder()
	assert.Equal(t, 0, builder.ProviderCount())
	builder.AddConsole(ConsoleLoggerOptions{Output: &bytes.Buffer{}})
	assert.Equal(t, 1, builder.ProviderCount())
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.WithCategory("x").WithFields(Field{Key: "k", Value: 1}).Info("nothing")
	})
}

func BenchmarkConsoleLogging(b *testing.B) {
	var buf bytes.Buffer
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build().
		CreateLogger("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("Benchmark", Field{Key: "i", Value: i})
		buf.Reset()
	}
}
