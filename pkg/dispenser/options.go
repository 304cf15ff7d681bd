package dispenser

import (
	"github.com/jonboulle/clockwork"

	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

// Option 售货机配置选项
type Option func(*Machine)

// WithLogger 设置日志
func WithLogger(l *logger.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock 设置历史记录使用的时钟
func WithClock(c clockwork.Clock) Option {
	return func(m *Machine) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithHistory 保留最近 limit 条操作记录，0 表示不记录
func WithHistory(limit int) Option {
	return func(m *Machine) {
		m.history = newHistory(limit)
	}
}

// WithObserver 注册操作观察者，可多次调用
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}
