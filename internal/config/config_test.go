package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	pkgconfig "github.com/junbin-yang/go-vendkit/pkg/config"
	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 10, c.Machine.Inventory)
	assert.Equal(t, "info", c.Logger.Level)
	assert.Equal(t, "vendkit", c.Metrics.Namespace)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := Default()
	c.Machine.Inventory = -1
	c.Machine.QueueSize = -2
	c.Logger.Level = "loud"
	c.Logger.Rotate = "weekly"
	c.Metrics.Addr = ":2112"

	err := c.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
	assert.Contains(t, err.Error(), "machine.inventory")
	assert.Contains(t, err.Error(), "logger.level")
}

func TestValidate_RotateNeedsFile(t *testing.T) {
	c := Default()
	c.Logger.Rotate = "size"
	assert.Error(t, c.Validate())

	c.Logger.Output = "/tmp/vendctl.log"
	assert.NoError(t, c.Validate())
}

func TestLoadThroughManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendctl.yml")
	require.NoError(t, os.WriteFile(path, []byte("machine:\n  inventory: 3\nlogger:\n  level: debug\n"), 0o644))
	t.Setenv(EnvPrefix+"HISTORY", "5")

	m := pkgconfig.NewManager[Config](pkgconfig.WithEnvPrefix(EnvPrefix))
	require.NoError(t, m.Load(path))

	c := m.Get()
	assert.Equal(t, 3, c.Machine.Inventory)
	assert.Equal(t, 5, c.Machine.History)
	assert.Equal(t, 16, c.Machine.QueueSize, "未设置的字段保持默认值")
	assert.Equal(t, "debug", c.Logger.Level)
}

func TestLoggerConfig_NewLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.log")
	l, closeLog, err := LoggerConfig{Level: "warn", Output: file}.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logger.WarnLevel, l.Level())

	l.Warn("to file")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))

	require.NoError(t, closeLog())
	assert.ErrorIs(t, closeLog(), os.ErrClosed, "日志文件应已关闭")

	_, _, err = LoggerConfig{Level: "nope"}.NewLogger()
	assert.Error(t, err)

	l, closeLog, err = LoggerConfig{Level: "info", Output: filepath.Join(t.TempDir(), "r.log"), Rotate: "size", MaxSize: 1}.NewLogger()
	require.NoError(t, err)
	l.Info("rotated")
	assert.NoError(t, closeLog())
}

func TestLoggerConfig_StderrNotClosed(t *testing.T) {
	_, closeLog, err := LoggerConfig{Level: "info"}.NewLogger()
	require.NoError(t, err)
	assert.NoError(t, closeLog())
	assert.NoError(t, closeLog())

	_, err = os.Stderr.Stat()
	assert.NoError(t, err, "标准错误输出不应被关闭")
}
