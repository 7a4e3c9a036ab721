package sqlnull

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rulego/sqlnull/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试默认配置
func TestNewConfig(t *testing.T) {
	config := NewConfig()
	assert.False(t, config.UseRelationalNulls)
	assert.Equal(t, "INFO", config.LogLevel)
	assert.NoError(t, config.Validate())
}

// TestParseConfig 测试从map解析配置
func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    Config
		wantErr string
	}{
		{name: "空配置", raw: nil, want: NewConfig()},
		{
			name: "完整配置",
			raw:  map[string]any{"use_relational_nulls": true, "log_level": "WARN"},
			want: Config{UseRelationalNulls: true, LogLevel: "WARN"},
		},
		{
			name: "弱类型",
			raw:  map[string]any{"use_relational_nulls": "true"},
			want: Config{UseRelationalNulls: true, LogLevel: "INFO"},
		},
		{name: "未知字段", raw: map[string]any{"relational": true}, wantErr: "relational"},
		{name: "未知日志级别", raw: map[string]any{"log_level": "TRACE"}, wantErr: "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, config)
		})
	}
}

// TestLoadConfig 测试从YAML文件读取配置
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	assert.True(t, config.UseRelationalNulls)
	assert.Equal(t, "debug", config.LogLevel)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	config, err = LoadConfig(empty)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), config)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("log_level: [\n"), 0o644))
	_, err = LoadConfig(broken)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// TestNewFromConfig 测试通过配置创建引擎
func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	engine, err := NewFromConfig(Config{UseRelationalNulls: true, LogLevel: "OFF"}, WithLogOutput(&buf, logger.DEBUG))
	require.NoError(t, err)
	assert.True(t, engine.UseRelationalNulls())

	_, err = NewFromConfig(Config{LogLevel: "LOUD"})
	assert.Error(t, err)

	// WithConfig 在日志记录器之后应用时设置其级别
	buf.Reset()
	engine = New(WithLogOutput(&buf, logger.DEBUG), WithConfig(Config{LogLevel: "OFF"}))
	engine.Process(membership(true))
	assert.Empty(t, buf.String())

	// 无效级别被忽略并记录警告
	buf.Reset()
	New(WithLogOutput(&buf, logger.DEBUG), WithConfig(Config{LogLevel: "LOUD"}))
	assert.Contains(t, buf.String(), "ignoring log level")
}
