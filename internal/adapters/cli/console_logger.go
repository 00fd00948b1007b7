package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// consoleLogger writes application log lines to stderr so they never mix with
// the report output on stdout. DEBUG lines are dropped unless verbose is set.
type consoleLogger struct {
	out     io.Writer
	verbose bool
}

func newConsoleLogger(verbose bool) *consoleLogger {
	return &consoleLogger{out: os.Stderr, verbose: verbose}
}

// Log formats one line: timestamp, level, message, then metadata as key=value
// pairs in sorted key order so output is stable across runs.
func (l *consoleLogger) Log(level, message string, metadata map[string]interface{}) {
	if level == "DEBUG" && !l.verbose {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", time.Now().Format("15:04:05"), level, message)

	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, metadata[k])
		}
	}

	fmt.Fprintln(l.out, b.String())
}
