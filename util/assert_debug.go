//go:build debug

package util

import (
	"fmt"

	"go.uber.org/zap"
)

// Assert panics when cond is false.
func Assert(log *zap.Logger, cond bool, msg string, fields ...zap.Field) bool {
	if !cond {
		log.Error(msg, fields...)
		panic(fmt.Sprintf("assertion failed: %s", msg))
	}
	return cond
}
