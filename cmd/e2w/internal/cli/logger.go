package cli

import (
	"fmt"
	"io"
)

// stderrLogger writes progress to the command's error stream. Debug
// output is suppressed unless verbose mode is on.
type stderrLogger struct {
	out     io.Writer
	verbose bool
}

func newStderrLogger(out io.Writer, verbose bool) *stderrLogger {
	return &stderrLogger{out: out, verbose: verbose}
}

func (l *stderrLogger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *stderrLogger) Infof(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *stderrLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.out, "error: "+format+"\n", args...)
}
