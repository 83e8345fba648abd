package log

import (
	"context"
	"fmt"
)

// SafeError logs err at error level. With production set, only the dynamic
// type of err is logged.
func SafeError(ctx context.Context, logger Logger, msg string, err error, production bool) {
	if logger == nil || err == nil || !logger.Enabled(LevelError) {
		return
	}

	field := Err(err)
	if production {
		field = String("error_type", fmt.Sprintf("%T", err))
	}

	logger.Log(ctx, LevelError, msg, field)
}
