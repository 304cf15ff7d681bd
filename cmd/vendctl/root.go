package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junbin-yang/go-vendkit/internal/config"
	"github.com/junbin-yang/go-vendkit/internal/metrics"
	pkgconfig "github.com/junbin-yang/go-vendkit/pkg/config"
	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

type globalFlags struct {
	configPath string
	logLevel   string
	inventory  int
}

// apply 命令行参数优先于配置文件与环境变量
func (f *globalFlags) apply(cfg *config.Config) {
	if f.logLevel != "" {
		cfg.Logger.Level = f.logLevel
	}
	if f.inventory >= 0 {
		cfg.Machine.Inventory = f.inventory
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "vendctl",
		Short:         "vendctl drives a token-operated dispensing machine",
		Long:          `vendctl runs a dispensing controller that accepts a token, holds inventory and releases one unit per accepted token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (yaml/json/ini); searched in ./configs, <exec dir>/configs, /etc/vendctl when empty")
	pf.StringVar(&flags.logLevel, "log-level", "", "override logger.level")
	pf.IntVar(&flags.inventory, "inventory", -1, "override machine.inventory")

	cmd.AddCommand(
		newRunCmd(flags),
		newReplCmd(flags),
		newTableCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig 读取配置；未指定路径且默认位置没有文件时只使用默认值与环境变量
func loadConfig(flags *globalFlags) (*pkgconfig.Manager[config.Config], error) {
	m := pkgconfig.NewManager[config.Config](
		pkgconfig.WithAppName("vendctl"),
		pkgconfig.WithDefaultPaths(
			"./configs/{{.AppName}}",
			"{{.ExecDir}}/configs/{{.AppName}}",
			"/etc/{{.AppName}}/{{.AppName}}",
		),
		pkgconfig.WithEnvPrefix(config.EnvPrefix),
		pkgconfig.WithDotenv(),
	)

	err := m.Load(flags.configPath)
	if errors.Is(err, pkgconfig.ErrNotFound) && flags.configPath == "" {
		err = m.LoadEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := m.Get()
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// app 命令共享的运行时组件
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	closeLog  func() error
	machine   *dispenser.Machine
	collector *metrics.Collector
}

func newApp(cfg *config.Config) (*app, error) {
	log, closeLog, err := cfg.Logger.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, closeLog: closeLog}
	opts := []dispenser.Option{
		dispenser.WithLogger(log.Named("dispenser")),
		dispenser.WithHistory(cfg.Machine.History),
	}
	if cfg.Metrics.Enabled {
		a.collector = metrics.New(cfg.Metrics.Namespace)
		opts = append(opts, dispenser.WithObserver(a.collector))
	}

	if a.machine, err = dispenser.New(cfg.Machine.Inventory, opts...); err != nil {
		_ = closeLog()
		return nil, err
	}
	if a.collector != nil {
		a.collector.Init(a.machine.Snapshot())
	}

	log.Debug("machine ready", logger.Int("inventory", cfg.Machine.Inventory), logger.Int("history", cfg.Machine.History))
	return a, nil
}

// close 刷新并关闭日志输出
func (a *app) close() {
	_ = a.log.Sync()
	_ = a.closeLog()
}

// onConfigChange 配置热更新时调整日志级别，命令行指定的级别保持不变
func (a *app) onConfigChange(flags *globalFlags) func(old, next *config.Config) {
	return func(_, next *config.Config) {
		flags.apply(next)
		lvl, err := logger.ParseLevel(next.Logger.Level)
		if err != nil {
			a.log.Warn("ignore reloaded log level", logger.String("level", next.Logger.Level), logger.Err(err))
			return
		}
		if lvl != a.log.Level() {
			a.log.SetLevel(lvl)
			a.log.Info("log level reloaded", logger.Stringer("level", lvl))
		}
	}
}
