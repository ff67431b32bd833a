// Package runtime provides the Runtime interface for executing job payloads.
package runtime

import (
	"context"
	"time"

	"gridpay/internal/store"
)

// Spec describes one payload to execute.
type Spec struct {
	Lang     store.Language
	Filename string
	Code     string
	Timeout  time.Duration
}

// Result carries the captured outputs of a finished execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runtime executes a job payload to completion.
// Implementations include Docker containers and raw OS processes.
type Runtime interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
}

// Interpreter returns the command that runs a payload of the given language.
func Interpreter(lang store.Language) string {
	if lang == store.LangJavaScript {
		return "node"
	}
	return "python3"
}

// Image returns the container image used for the given language.
func Image(lang store.Language) string {
	if lang == store.LangJavaScript {
		return "node:20-alpine"
	}
	return "python:3.11-slim"
}
