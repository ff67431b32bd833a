package runtime

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"gridpay/internal/store"
)

func requireInterpreter(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestExecRuntime_Python(t *testing.T) {
	requireInterpreter(t, "python3")

	rt := NewExecRuntime()
	result, err := rt.Run(context.Background(), Spec{
		Lang:     store.LangPython,
		Filename: "hello.py",
		Code:     "print('hello from python')",
		Timeout:  30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("got exit code %d, want 0 (stderr: %s)", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "hello from python") {
		t.Errorf("got stdout %q", result.Stdout)
	}
}

func TestExecRuntime_CapturesStderrAndExitCode(t *testing.T) {
	requireInterpreter(t, "python3")

	rt := NewExecRuntime()
	result, err := rt.Run(context.Background(), Spec{
		Lang:     store.LangPython,
		Filename: "boom.py",
		Code:     "import sys; sys.stderr.write('it broke\\n'); sys.exit(3)",
		Timeout:  30 * time.Second,
	})
	if err != nil {
		t.Fatalf("a failing payload is a result, not an error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("got exit code %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "it broke") {
		t.Errorf("got stderr %q", result.Stderr)
	}
}

func TestInterpreterAndImageByLanguage(t *testing.T) {
	if got := Interpreter(store.LangPython); got != "python3" {
		t.Errorf("got %q, want python3", got)
	}
	if got := Interpreter(store.LangJavaScript); got != "node" {
		t.Errorf("got %q, want node", got)
	}
	if got := Image(store.LangPython); !strings.HasPrefix(got, "python:") {
		t.Errorf("got image %q for python", got)
	}
	if got := Image(store.LangJavaScript); !strings.HasPrefix(got, "node:") {
		t.Errorf("got image %q for javascript", got)
	}
}
