package lifecycle

import "context"

// RunFunc 协程运行函数，ctx 取消时应尽快返回
type RunFunc func(ctx context.Context) error

// StopFunc 协程停止函数，用于 ctx 无法打断的阻塞调用（如 http.Server）
type StopFunc func(ctx context.Context) error

// HookFunc 启动/退出钩子
type HookFunc func(ctx context.Context) error

// WorkerHookFunc 协程退出钩子
type WorkerHookFunc func(name string, err error)

type worker struct {
	name string
	run  RunFunc
	stop StopFunc
}

// WorkerOption 协程配置选项
type WorkerOption func(*worker)

// WithStopFunc 设置停止函数
func WithStopFunc(stop StopFunc) WorkerOption {
	return func(w *worker) {
		w.stop = stop
	}
}
