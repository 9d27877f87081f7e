//go:build !debug

package util

import "go.uber.org/zap"

// Assert logs a warning when cond is false and returns cond so the caller
// can take its fallback path.
func Assert(log *zap.Logger, cond bool, msg string, fields ...zap.Field) bool {
	if !cond {
		log.Warn("assertion failed: "+msg, fields...)
	}
	return cond
}
