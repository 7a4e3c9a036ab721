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

package eval

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	// ErrorKindUnsupported 求值器不支持的节点或运算符
	ErrorKindUnsupported ErrorKind = iota
	// ErrorKindType 操作数类型不匹配
	ErrorKindType
	// ErrorKindRuntime 运行时错误，例如除零
	ErrorKindRuntime
	// ErrorKindCompile expr 程序编译失败
	ErrorKindCompile
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnsupported:
		return "UNSUPPORTED"
	case ErrorKindType:
		return "TYPE_ERROR"
	case ErrorKindRuntime:
		return "RUNTIME_ERROR"
	case ErrorKindCompile:
		return "COMPILE_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ErrDivisionByZero is returned, wrapped in an EvalError, by "/" and "%".
var ErrDivisionByZero = errors.New("division by zero")

// EvalError 求值错误
type EvalError struct {
	Kind    ErrorKind
	Message string
	// Node is the SQL rendering of the offending node, if known.
	Node string
	Err  error
}

// Error 实现 error 接口
func (e *EvalError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))
	if e.Node != "" {
		builder.WriteString(fmt.Sprintf(" (at '%s')", e.Node))
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func unsupported(node, format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrorKindUnsupported, Message: fmt.Sprintf(format, args...), Node: node}
}

func typeError(format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrorKindType, Message: fmt.Sprintf(format, args...)}
}

func runtimeError(err error, format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrorKindRuntime, Message: fmt.Sprintf(format, args...), Err: err}
}
