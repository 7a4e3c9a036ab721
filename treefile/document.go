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

package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/rulego/sqlnull/sqlexpr"
	"gopkg.in/yaml.v3"
)

// Document describes one expression tree and optional rows to evaluate it
// against.
type Document struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Predicate marks the expression as a WHERE clause, where NULL and false
	// are equivalent.
	Predicate  bool             `yaml:"predicate"`
	Expression *NodeSpec        `yaml:"expression"`
	Rows       []map[string]any `yaml:"rows"`
}

// Tree builds the expression tree of the document.
func (d *Document) Tree() (sqlexpr.Expression, error) {
	if d.Expression == nil {
		return nil, errors.New("expression is required")
	}
	return Build(d.Expression)
}

// Load reads a document from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a document from YAML text.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return Decode(raw)
}

// Decode converts a generic map, as produced by YAML or JSON decoders, into
// a document. Unknown fields are rejected.
func Decode(raw map[string]any) (*Document, error) {
	var doc Document
	if err := decode(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Expression == nil {
		return nil, errors.New("expression is required")
	}
	return &doc, nil
}

// DecodeNode converts a generic map into an expression tree.
func DecodeNode(raw map[string]any) (sqlexpr.Expression, error) {
	var spec NodeSpec
	if err := decode(raw, &spec); err != nil {
		return nil, err
	}
	return Build(&spec)
}

func decode(raw any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid tree description: %w", err)
	}
	return nil
}
