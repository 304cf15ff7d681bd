package logger

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SizeRotateConfig 按大小轮转配置
type SizeRotateConfig struct {
	Filename   string // 日志文件路径
	MaxSize    int    // 单个文件最大尺寸（MB）
	MaxBackups int    // 保留旧文件个数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否gzip压缩旧文件
	LocalTime  bool   // 备份文件名使用本地时间
}

// RotateConfig 按时间轮转配置
type RotateConfig struct {
	Filename     string        // 日志文件路径（作为软链接名）
	MaxAge       int           // 保留天数
	RotationTime time.Duration // 轮转间隔
	LocalTime    bool          // 文件名使用本地时间
}

// NewRotateBySize 创建按大小轮转的输出
func NewRotateBySize(cfg *SizeRotateConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  cfg.LocalTime,
	}
}

// NewProductionRotateBySize 生产环境默认的按大小轮转输出：100MB，保留30天
func NewProductionRotateBySize(filename string) io.Writer {
	return NewRotateBySize(&SizeRotateConfig{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
		LocalTime:  true,
	})
}

// NewRotateByTime 创建按时间轮转的输出
func NewRotateByTime(cfg *RotateConfig) (io.Writer, error) {
	opts := []rotatelogs.Option{
		rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge) * 24 * time.Hour),
		rotatelogs.WithRotationTime(cfg.RotationTime),
		rotatelogs.WithLinkName(cfg.Filename),
	}
	if cfg.LocalTime {
		opts = append(opts, rotatelogs.WithClock(rotatelogs.Local))
	} else {
		opts = append(opts, rotatelogs.WithClock(rotatelogs.UTC))
	}
	rl, err := rotatelogs.New(cfg.Filename+".%Y%m%d%H", opts...)
	if err != nil {
		return nil, err
	}
	return rl, nil
}
