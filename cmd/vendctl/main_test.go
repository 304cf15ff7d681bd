package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junbin-yang/go-vendkit/internal/config"
	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_ScenarioB(t *testing.T) {
	out, err := execute(t, "", "run", "--inventory", "1", "insert", "dispense", "insert")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "token inserted")
	assert.Contains(t, lines[1], "machine is now empty")
	assert.Contains(t, lines[2], "rejected(MachineDepleted)")
	assert.Equal(t, "state=Depleted inventory=0 dispensed=1 operations=3", lines[3])
}

func TestRun_Script(t *testing.T) {
	script := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(script, []byte("# warm up\ninsert\neject  # give it back\n"), 0o644))

	out, err := execute(t, "", "run", "--inventory", "1", "--script", script, "dispense")
	require.NoError(t, err)
	assert.Contains(t, out, "token returned")
	assert.Contains(t, out, "insert a token first")
	assert.Contains(t, out, "state=NoToken inventory=1 dispensed=0 operations=3")
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "", "run")
	assert.Error(t, err)

	_, err = execute(t, "", "run", "restock")
	assert.Error(t, err)

	_, err = execute(t, "", "run", "--log-level", "loud", "insert")
	assert.Error(t, err)
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendctl.yml")
	require.NoError(t, os.WriteFile(path, []byte("machine:\n  inventory: 4\nmetrics:\n  enabled: true\n"), 0o644))

	out, err := execute(t, "", "--config", path, "run", "insert", "dispense")
	require.NoError(t, err)
	assert.Contains(t, out, "state=NoToken inventory=3 dispensed=1 operations=2")
}

func TestTable(t *testing.T) {
	out, err := execute(t, "", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected: AlreadyHasToken")
	assert.Contains(t, out, "-> NoToken (-1)")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "vendctl version dev\n", out)
}

func TestRepl(t *testing.T) {
	stdin := "insert\ninsert\nbogus\ndispense\nstate\nhistory\nquit\ninsert\n"
	out, err := execute(t, stdin, "repl", "--inventory", "2")
	require.NoError(t, err)

	assert.Contains(t, out, replHelp)
	assert.Contains(t, out, "#1 InsertToken")
	assert.Contains(t, out, "rejected(AlreadyHasToken)")
	assert.Contains(t, out, "unknown operation")
	assert.Contains(t, out, "state=NoToken inventory=1 dispensed=1 operations=3")
	assert.Contains(t, out, "TokenHeld -> NoToken ok inventory=1")
	assert.NotContains(t, out, "#4", "quit 之后的命令不应执行")
}

func TestRepl_EOF(t *testing.T) {
	out, err := execute(t, "dispense\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "insert a token first")
}

func TestConfigReload_KeepsFlagLevel(t *testing.T) {
	flags := &globalFlags{logLevel: "debug", inventory: -1}
	cfg := config.Default()
	flags.apply(cfg)

	a, err := newApp(cfg)
	require.NoError(t, err)
	defer a.close()
	require.Equal(t, logger.DebugLevel, a.log.Level())

	next := config.Default()
	next.Logger.Level = "error"
	a.onConfigChange(flags)(cfg, next)
	assert.Equal(t, logger.DebugLevel, a.log.Level(), "命令行指定的级别不应被热更新覆盖")
	assert.Equal(t, "debug", next.Logger.Level)
}

func TestConfigReload_AppliesFileLevel(t *testing.T) {
	flags := &globalFlags{inventory: -1}
	cfg := config.Default()

	a, err := newApp(cfg)
	require.NoError(t, err)
	defer a.close()
	require.Equal(t, logger.InfoLevel, a.log.Level())

	next := config.Default()
	next.Logger.Level = "error"
	a.onConfigChange(flags)(cfg, next)
	assert.Equal(t, logger.ErrorLevel, a.log.Level())

	next.Logger.Level = "bogus"
	a.onConfigChange(flags)(cfg, next)
	assert.Equal(t, logger.ErrorLevel, a.log.Level(), "无效级别被忽略")
}
