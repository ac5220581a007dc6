// Package execcontext carries the context and output streams a command runs
// with.
package execcontext

import (
	"context"
	"fmt"
	"io"
	"os"
)

type RunContext struct {
	Context context.Context
	StdOut  io.Writer
	StdErr  io.Writer
}

// Background returns a RunContext bound to the process streams.
func Background() RunContext {
	return RunContext{Context: context.Background(), StdOut: os.Stdout, StdErr: os.Stderr}
}

func (rc RunContext) Write(p []byte) (n int, err error) {
	return rc.StdOut.Write(p)
}

func (rc RunContext) Printf(format string, v ...any) {
	fmt.Fprintf(rc.StdOut, format, v...)
}

// IsCancelled reports whether the underlying context is done.
func (rc RunContext) IsCancelled() bool {
	select {
	case <-rc.Context.Done():
		return true
	default:
		return false
	}
}
