// Package appshell wires a command entry point to the process: signals,
// standard streams and the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is a complete command invocation returning an exit code.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

const exitCanceled = 130

// Main runs fn with a context canceled on SIGINT/SIGTERM and exits.
func Main(fn RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Invoke(ctx, fn, os.Args[1:], stdinIsTerminal(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Invoke runs fn once. With no arguments and nothing piped in, help is shown
// instead of blocking on the terminal. A canceled context never reports
// success.
func Invoke(ctx context.Context, fn RunFunc, argv []string, interactive bool, stdout, stderr io.Writer) int {
	if len(argv) == 0 && interactive {
		argv = []string{"-h"}
	}
	code := fn(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = exitCanceled
	}
	return code
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
