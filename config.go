/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sqlnull

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/rulego/sqlnull/logger"
	"gopkg.in/yaml.v3"
)

// Config 引擎配置
type Config struct {
	// UseRelationalNulls 使用数据库原生三值逻辑，不做补偿
	UseRelationalNulls bool `json:"useRelationalNulls" yaml:"use_relational_nulls" mapstructure:"use_relational_nulls"`
	// LogLevel 日志级别：DEBUG, INFO, WARN, ERROR, OFF
	LogLevel string `json:"logLevel" yaml:"log_level" mapstructure:"log_level"`
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		UseRelationalNulls: false,
		LogLevel:           logger.INFO.String(),
	}
}

// Validate 检查配置是否有效
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseConfig 从通用的 map 解析配置，缺省字段保留默认值，未知字段报错。
func ParseConfig(raw map[string]any) (Config, error) {
	config := NewConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return config, err
	}
	if err := dec.Decode(raw); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, config.Validate()
}

// LoadConfig 从YAML文件读取配置
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewConfig(), fmt.Errorf("failed to read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return NewConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return ParseConfig(raw)
}

// NewFromConfig 校验配置并创建引擎。配置在其余选项之后应用，
// 日志级别作用于选项设置的日志记录器。
func NewFromConfig(config Config, options ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(append(options[:len(options):len(options)], WithConfig(config))...), nil
}
