package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// Defaulter 解析前填充默认值
type Defaulter interface {
	SetDefaults()
}

// Validator 解析后校验
type Validator interface {
	Validate() error
}

// Manager 泛型配置管理器：文件 -> 环境变量覆盖 -> 校验
type Manager[T any] struct {
	mu         sync.RWMutex
	opts       options
	path       string
	serializer Serializer
	current    *T
	callbacks  []func(old, new *T)
	watching   bool
}

// NewManager 创建配置管理器
func NewManager[T any](opts ...Option) *Manager[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T]{opts: o}
}

// Load 加载配置文件，path 为空时按默认路径查找
func (m *Manager[T]) Load(path string) error {
	var (
		s   Serializer
		err error
	)
	if path != "" {
		if err = validateConfigPath(path); err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		s = m.chooseSerializer(path)
	} else if path, s, err = m.findDefaultConfigPath(); err != nil {
		return err
	}

	cfg, err := m.decode(path, s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.path = path
	m.serializer = s
	m.current = cfg
	m.mu.Unlock()
	return nil
}

// LoadEnv 不读取文件，仅使用默认值与环境变量
func (m *Manager[T]) LoadEnv() error {
	cfg, err := m.build(nil, nil)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()
	return nil
}

// Get 返回当前配置，未加载时为 nil
func (m *Manager[T]) Get() *T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Path 返回配置文件路径
func (m *Manager[T]) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Save 将当前配置写回文件（先写临时文件再替换）
func (m *Manager[T]) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.path == "" {
		return ErrNotLoaded
	}

	data, err := m.serializer.Marshal(m.current)
	if err != nil {
		return fmt.Errorf("marshal config failed: %w", err)
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp config failed: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		return fmt.Errorf("rename temp config failed: %w", err)
	}
	return nil
}

// Reload 重新加载配置，成功后在锁外触发变更回调
func (m *Manager[T]) Reload() error {
	m.mu.RLock()
	path, s := m.path, m.serializer
	m.mu.RUnlock()

	if path == "" {
		return ErrNotLoaded
	}

	cfg, err := m.decode(path, s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.current
	m.current = cfg
	callbacks := make([]func(old, new *T), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(old, cfg)
	}
	return nil
}

// OnChange 注册配置变更回调
func (m *Manager[T]) OnChange(fn func(old, new *T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Watch 监听配置文件变化并自动重载，阻塞直到 ctx 结束
func (m *Manager[T]) Watch(ctx context.Context) error {
	m.mu.Lock()
	if m.path == "" {
		m.mu.Unlock()
		return ErrNotLoaded
	}
	if m.watching {
		m.mu.Unlock()
		return ErrAlreadyWatching
	}
	m.watching = true
	path := filepath.Clean(m.path)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.watching = false
		m.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher failed: %w", err)
	}
	defer watcher.Close()

	// 监听目录以兼容编辑器的"写临时文件再重命名"
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("add watch path failed: %w", err)
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(m.opts.debounce)
			}

		case <-debounce.C:
			if err := m.Reload(); err != nil {
				m.opts.onError(fmt.Errorf("auto reload failed: %w", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.opts.onError(fmt.Errorf("watch error: %w", err))
		}
	}
}

/* ------------------------------ 内部方法 ------------------------------ */

func (m *Manager[T]) decode(path string, s Serializer) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}
	return m.build(data, s)
}

// build 默认值 -> 文件内容 -> .env -> 环境变量 -> 校验
func (m *Manager[T]) build(data []byte, s Serializer) (*T, error) {
	cfg := new(T)
	if d, ok := any(cfg).(Defaulter); ok {
		d.SetDefaults()
	}

	if s != nil && len(data) > 0 {
		if err := s.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal failed (%s): %w", s.Name(), err)
		}
	}

	if err := m.applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides failed: %w", err)
	}

	if v, ok := any(cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}

func (m *Manager[T]) applyEnv(cfg *T) error {
	for _, file := range m.opts.dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return env.ParseWithOptions(cfg, env.Options{Prefix: m.opts.envPrefix})
}

// chooseSerializer 强制格式 > 后缀识别 > 默认
func (m *Manager[T]) chooseSerializer(path string) Serializer {
	if m.opts.forceFormat != nil {
		return m.opts.forceFormat
	}

	ext := filepath.Ext(path)
	for _, format := range m.opts.supportedFormats {
		for _, e := range format.FileExts() {
			if e == ext {
				return format
			}
		}
	}
	return m.opts.serializer
}

// findDefaultConfigPath 查找默认配置路径
func (m *Manager[T]) findDefaultConfigPath() (string, Serializer, error) {
	execPath, _ := os.Executable()
	vars := map[string]string{
		"AppName": m.opts.appName,
		"ExecDir": filepath.Dir(execPath),
	}

	for _, tpl := range m.opts.defaultPaths {
		basePath := replacePathVars(tpl, vars)

		// 无后缀候选可能恰好是可执行文件本身
		if filepath.Clean(basePath) != filepath.Clean(execPath) {
			if err := validateConfigPath(basePath); err == nil {
				return basePath, m.chooseSerializer(basePath), nil
			}
		}

		for _, format := range m.opts.supportedFormats {
			for _, ext := range format.FileExts() {
				fullPath := basePath + ext
				if err := validateConfigPath(fullPath); err == nil {
					return fullPath, format, nil
				}
			}
		}
	}

	return "", nil, ErrNotFound
}
