// Package diag carries this module's ambient logging, grounded on the
// global projectdiscovery/gologger logger used throughout
// projectdiscovery/alterx (gologger.Warning().Msgf(...),
// gologger.DefaultLogger.SetMaxLevel(levels...)). Compilation is a
// one-shot, synchronous operation, so a thin wrapper around the package
// logger is enough — no per-call Logger instances to thread through.
package diag

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

// SetVerbose raises or lowers the package logger's level, the same
// knob alterx's CLI runner exposes via a -verbose/-silent flag.
func SetVerbose(verbose bool) {
	if verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
		return
	}
	gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)
}

// Logger implements parser.Logger by forwarding to the package-global
// gologger instance, so parser findings (like the "[]" empty-class
// convention) surface the same way any other diagnostic in this module
// does.
type Logger struct{}

// Warnf logs a non-fatal diagnostic at warning level.
func (Logger) Warnf(format string, args ...any) {
	gologger.Warning().Msgf(format, args...)
}

// Debugf logs a diagnostic only visible at verbose level, for tracing
// subset construction and macro expansion during development.
func Debugf(format string, args ...any) {
	gologger.Debug().Msgf(format, args...)
}

// Infof logs a top-level progress message, e.g. one line per compiled
// rule set.
func Infof(format string, args ...any) {
	gologger.Info().Msgf(format, args...)
}
