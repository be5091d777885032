package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Spec describes one external command invocation.
type Spec struct {
	// Program is the executable to run (resolved via PATH).
	Program string

	// Args are the program arguments, not including the program itself.
	Args []string

	// Dir is the working directory for the command.
	// Empty means the calling process's current directory.
	Dir string

	// Env is the environment for the command.
	// Nil means the full inherited environment.
	Env []string

	// Stream, when non-nil, receives the command's combined output as it
	// is produced, in addition to the captured copy in Output.
	Stream io.Writer
}

// Output is the observable result of a command invocation.
type Output struct {
	// Combined holds interleaved stdout and stderr.
	Combined string

	// ExitCode is the command's exit status. 0 on success.
	ExitCode int
}

// Runner executes external commands. The real implementation shells out;
// tests substitute a RecordingRunner so validation paths never spawn
// processes.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Output, error)
}

// ExecRunner runs commands via os/exec with combined output capture.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command described by spec, blocking until it exits.
// Stderr is folded into stdout. A non-zero exit returns an error that
// embeds the command line and the captured output; the Output is still
// populated so callers can surface diagnostics.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Output, error) {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir

	if spec.Env != nil {
		cmd.Env = spec.Env
	} else {
		cmd.Env = os.Environ()
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if spec.Stream != nil {
		w = io.MultiWriter(&buf, spec.Stream)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	out := Output{Combined: buf.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, fmt.Errorf("%s exited with code %d: %s",
				commandLine(spec), out.ExitCode, FirstLine(out.Combined))
		}
		out.ExitCode = -1
		return out, fmt.Errorf("failed to start %s: %w", commandLine(spec), err)
	}

	return out, nil
}

func commandLine(spec Spec) string {
	line := spec.Program
	for _, a := range spec.Args {
		line += " " + a
	}
	return line
}

// FirstLine trims output down to its first non-empty line, for error
// text and failure diagnostics.
func FirstLine(s string) string {
	start := 0
	for start < len(s) && (s[start] == '\n' || s[start] == '\r') {
		start++
	}
	for i := start; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[start:i]
		}
	}
	return s[start:]
}
