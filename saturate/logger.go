package saturate

import "fmt"

// Logger receives the driver's iteration trace. It is a trimmed form of
// the perf-analysis tooling's Logger shape that this module also
// borrows its CLI style from (see utils.Logger there): Run has nothing
// to warn about or fail on, per this engine's error-handling design, so
// there's no Warn/Error here.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// nopLogger discards everything; it's Run's default so library callers
// never see output they didn't ask for.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// StdLogger writes Infof unconditionally and Debugf only when Verbose
// is set, both via fmt.Fprintf to the configured Writer.
type StdLogger struct {
	Writer  interface{ Write([]byte) (int, error) }
	Verbose bool
}

func (l *StdLogger) Debugf(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Fprintf(l.Writer, "debug: "+format+"\n", args...)
	}
}

func (l *StdLogger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.Writer, format+"\n", args...)
}
