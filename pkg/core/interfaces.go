package core

// Logger is the logging boundary for render progress and diagnostics. The
// renderer and web server log through it so hosts can redirect or silence
// output.
type Logger interface {
	Printf(format string, args ...interface{})
}
