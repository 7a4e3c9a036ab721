package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevel_String 测试日志级别的字符串表示
func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{" warning ", WARN, false},
		{"Error", ERROR, false},
		{"none", OFF, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDefaultLogger_LevelFiltering 测试级别过滤
func TestDefaultLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(WARN, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "[WARN] warn message")
	assert.Contains(t, output, "[ERROR] error message")

	assert.False(t, log.Enabled(INFO))
	assert.True(t, log.Enabled(ERROR))
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(ERROR, &buf)

	log.Debug("hidden")
	log.SetLevel(DEBUG)
	log.Debug("visible %d", 42)

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "[DEBUG] visible 42")
}

func TestDefaultLogger_OFF(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(OFF, &buf)

	log.Error("error message")
	assert.Empty(t, buf.String())
	assert.False(t, log.Enabled(ERROR))
}

func TestPrefixedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewPrefixedLogger(DEBUG, &buf, "nullability")

	log.Debug("compensating %s", "x = ANY (a)")
	assert.Contains(t, buf.String(), "[DEBUG] nullability: compensating x = ANY (a)")
}

// TestNewDiscardLogger 测试丢弃日志器
func TestNewDiscardLogger(t *testing.T) {
	log := NewDiscardLogger()
	require.NotNil(t, log)

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.SetLevel(DEBUG)
	assert.False(t, log.Enabled(ERROR))
}

// TestGlobalLogger 测试全局日志器
func TestGlobalLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))

	Debug("global debug")
	Info("global info")
	Warn("global warn")
	Error("global error")

	output := buf.String()
	for _, want := range []string{"global debug", "global info", "global warn", "global error"} {
		assert.Contains(t, output, want)
	}
}

// TestConcurrentLogging 测试并发日志记录
func TestConcurrentLogging(t *testing.T) {
	var buf safeBuffer
	log := NewLogger(INFO, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				log.Info("goroutine %d message %d", id, j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 100)
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
