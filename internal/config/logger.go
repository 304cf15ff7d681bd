package config

import (
	"io"
	"os"
	"time"

	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

// NewLogger 按日志配置创建日志实例，返回的 close 用于关闭日志文件
func (c LoggerConfig) NewLogger() (*logger.Logger, func() error, error) {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer
	switch {
	case c.Output == "" || c.Output == "stderr":
		out = os.Stderr
	case c.Output == "stdout":
		out = os.Stdout
	case c.Rotate == "size":
		out = logger.NewRotateBySize(&logger.SizeRotateConfig{
			Filename:   c.Output,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
			LocalTime:  true,
		})
	case c.Rotate == "time":
		if out, err = logger.NewRotateByTime(&logger.RotateConfig{
			Filename:     c.Output,
			MaxAge:       c.MaxAge,
			RotationTime: 24 * time.Hour,
			LocalTime:    true,
		}); err != nil {
			return nil, nil, err
		}
	default:
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
	}

	closeFn := func() error { return nil }
	if closer, ok := out.(io.Closer); ok && out != os.Stderr && out != os.Stdout {
		closeFn = closer.Close
	}
	return logger.New(out, level, logger.AddCaller(), logger.AddCallerSkip(1)), closeFn, nil
}
