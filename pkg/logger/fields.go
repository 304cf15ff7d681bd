package logger

import "go.uber.org/zap"

type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Uint64   = zap.Uint64
	Bool     = zap.Bool
	Duration = zap.Duration
	Time     = zap.Time
	Any      = zap.Any
	Stringer = zap.Stringer
)

// Err 错误字段
func Err(e error) Field {
	return zap.Error(e)
}
