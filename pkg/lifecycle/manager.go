package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

// Manager 生命周期管理器：并发运行一组命名协程，任一协程出错、收到信号或 ctx 取消时统一退出
type Manager struct {
	mu              sync.Mutex
	workers         []*worker
	names           map[string]struct{}
	onStartup       []HookFunc
	onShutdown      []HookFunc
	onWorkerExit    []WorkerHookFunc
	signals         []os.Signal
	shutdownTimeout time.Duration
	log             *logger.Logger
	running         bool
}

// NewManager 创建生命周期管理器
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		names:           make(map[string]struct{}),
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: 30 * time.Second,
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add 注册协程，需在 Run 之前调用
func (m *Manager) Add(name string, run RunFunc, opts ...WorkerOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.names[name]; exists {
		return ErrWorkerExists
	}
	w := &worker{name: name, run: run}
	for _, opt := range opts {
		opt(w)
	}
	m.names[name] = struct{}{}
	m.workers = append(m.workers, w)
	return nil
}

// OnStartup 注册启动钩子，任一钩子失败则不启动协程
func (m *Manager) OnStartup(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStartup = append(m.onStartup, fn)
}

// OnShutdown 注册退出钩子
func (m *Manager) OnShutdown(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onShutdown = append(m.onShutdown, fn)
}

// OnWorkerExit 注册协程退出钩子
func (m *Manager) OnWorkerExit(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWorkerExit = append(m.onWorkerExit, fn)
}

// Run 启动所有协程并等待退出。返回第一个非取消类错误。
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	workers := append([]*worker(nil), m.workers...)
	m.mu.Unlock()

	if len(m.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, m.signals...)
		defer stop()
	}

	for _, fn := range m.onStartup {
		if err := fn(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			m.log.Debug("worker started", logger.String("worker", w.name))
			err := w.run(gctx)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			for _, fn := range m.onWorkerExit {
				fn(w.name, err)
			}
			return err
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var runErr error
	select {
	case runErr = <-done:
		// 全部协程已退出
		return m.shutdown(workers, runErr, nil)
	case <-gctx.Done():
	}

	return m.shutdown(workers, runErr, done)
}

// shutdown 逆序调用停止函数，并在超时内等待协程退出
func (m *Manager) shutdown(workers []*worker, runErr error, done <-chan error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()

	for i := len(workers) - 1; i >= 0; i-- {
		if workers[i].stop == nil {
			continue
		}
		if err := workers[i].stop(shutdownCtx); err != nil {
			m.log.Warn("worker stop failed", logger.String("worker", workers[i].name), logger.Err(err))
		}
	}

	if done != nil {
		select {
		case runErr = <-done:
		case <-shutdownCtx.Done():
			return ErrShutdownTimeout
		}
	}

	for _, fn := range m.onShutdown {
		if err := fn(shutdownCtx); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}
