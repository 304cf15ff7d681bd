package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

// Config vendctl 应用配置
type Config struct {
	Machine MachineConfig `yaml:"machine" json:"machine" ini:"machine"`
	Logger  LoggerConfig  `yaml:"logger" json:"logger" ini:"logger"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" ini:"metrics"`
}

// MachineConfig 售货机配置
type MachineConfig struct {
	Inventory int `yaml:"inventory" json:"inventory" ini:"inventory" env:"INVENTORY"`
	History   int `yaml:"history" json:"history" ini:"history" env:"HISTORY"`
	QueueSize int `yaml:"queue_size" json:"queue_size" ini:"queue_size" env:"QUEUE_SIZE"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `yaml:"level" json:"level" ini:"level" env:"LOG_LEVEL"`
	Output     string `yaml:"output" json:"output" ini:"output" env:"LOG_OUTPUT"` // stderr/stdout/文件路径
	Rotate     string `yaml:"rotate" json:"rotate" ini:"rotate" env:"LOG_ROTATE"` // none/size/time
	MaxSize    int    `yaml:"max_size" json:"max_size" ini:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups" ini:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age" ini:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress" ini:"compress"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" ini:"enabled" env:"METRICS_ENABLED"`
	Namespace string `yaml:"namespace" json:"namespace" ini:"namespace"`
	Addr      string `yaml:"addr" json:"addr" ini:"addr" env:"METRICS_ADDR"` // 为空则不提供 /metrics
}

// EnvPrefix 环境变量前缀
const EnvPrefix = "VENDKIT_"

// SetDefaults 默认配置
func (c *Config) SetDefaults() {
	c.Machine = MachineConfig{Inventory: 10, History: 64, QueueSize: 16}
	c.Logger = LoggerConfig{Level: "info", Output: "stderr", Rotate: "none", MaxSize: 100, MaxBackups: 10, MaxAge: 30}
	c.Metrics = MetricsConfig{Namespace: "vendkit"}
}

// Default 返回默认配置
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

var errMetricsAddrWithoutMetrics = errors.New("metrics.addr set while metrics disabled")

// Validate 汇总所有配置错误
func (c *Config) Validate() error {
	var err error
	if c.Machine.Inventory < 0 {
		err = multierr.Append(err, fmt.Errorf("machine.inventory must be non-negative, got %d", c.Machine.Inventory))
	}
	if c.Machine.History < 0 {
		err = multierr.Append(err, fmt.Errorf("machine.history must be non-negative, got %d", c.Machine.History))
	}
	if c.Machine.QueueSize < 0 {
		err = multierr.Append(err, fmt.Errorf("machine.queue_size must be non-negative, got %d", c.Machine.QueueSize))
	}
	if _, lerr := logger.ParseLevel(c.Logger.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logger.level: %w", lerr))
	}
	switch c.Logger.Rotate {
	case "", "none", "size", "time":
	default:
		err = multierr.Append(err, fmt.Errorf("logger.rotate: unknown mode %q", c.Logger.Rotate))
	}
	if c.Logger.Rotate == "size" || c.Logger.Rotate == "time" {
		if c.Logger.Output == "" || c.Logger.Output == "stderr" || c.Logger.Output == "stdout" {
			err = multierr.Append(err, errors.New("logger.rotate requires a file output"))
		}
	}
	if c.Metrics.Addr != "" && !c.Metrics.Enabled {
		err = multierr.Append(err, errMetricsAddrWithoutMetrics)
	}
	return err
}
