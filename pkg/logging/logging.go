// Package logging provides the zap logger construction shared by every
// lexidex package, grounded on the teacher's pkg/utils production-logger
// helper.
package logging

import "go.uber.org/zap"

// New returns a development logger (human-readable, debug-level) when
// debug is true, otherwise a production logger (JSON, info-level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewProductionLogger returns a production zap logger.
func NewProductionLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// Noop returns a logger that discards everything, for callers that want a
// non-nil logger without configuring one.
func Noop() *zap.Logger {
	return zap.NewNop()
}
