package dispenser

import (
	"context"
	"sync"
	"sync/atomic"
)

type request struct {
	op    Operation
	ctx   context.Context
	reply chan Result
}

// Queue 单协程持有者：所有操作经队列串行交给一个协程执行。
// Close 或 Run 退出之后不再执行任何操作，队列中剩余的请求被丢弃；
// Submit 只有在操作确实执行后才返回结果，否则返回 ErrQueueClosed。
type Queue struct {
	machine  *Machine
	requests chan request

	done     chan struct{} // 停止接收
	stopped  chan struct{} // Run 已退出，之后不会再执行操作
	started  atomic.Bool
	doneOnce sync.Once
	stopOnce sync.Once
}

// NewQueue 创建操作队列，size 为缓冲长度
func NewQueue(m *Machine, size int) *Queue {
	if size < 0 {
		size = 0
	}
	return &Queue{
		machine:  m,
		requests: make(chan request, size),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Machine 返回队列持有的售货机
func (q *Queue) Machine() *Machine {
	return q.machine
}

// Run 处理队列直到 ctx 结束或 Close 被调用，退出时队列随之关闭
func (q *Queue) Run(ctx context.Context) error {
	q.started.Store(true)
	defer q.stop()
	defer q.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.done:
			return nil
		case req := <-q.requests:
			if q.closed() || ctx.Err() != nil {
				return nil
			}
			if req.ctx != nil && req.ctx.Err() != nil {
				continue
			}
			r := q.machine.Apply(req.op)
			if req.reply != nil {
				req.reply <- r
			}
		}
	}
}

// Submit 提交操作并等待结果
func (q *Queue) Submit(ctx context.Context, op Operation) (Result, error) {
	reply := make(chan Result, 1)
	if err := q.enqueue(ctx, request{op: op, ctx: ctx, reply: reply}); err != nil {
		return Result{}, err
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-q.stopped:
		// 结果总在 stopped 关闭前写入
		select {
		case r := <-reply:
			return r, nil
		default:
			return Result{}, ErrQueueClosed
		}
	}
}

// Post 提交操作，不等待结果
func (q *Queue) Post(ctx context.Context, op Operation) error {
	return q.enqueue(ctx, request{op: op})
}

func (q *Queue) enqueue(ctx context.Context, req request) error {
	if q.closed() {
		return ErrQueueClosed
	}

	select {
	case q.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrQueueClosed
	}
}

// Close 停止接收新操作，可重复调用。
// 排队中尚未执行的操作不会再执行。
func (q *Queue) Close() {
	q.doneOnce.Do(func() {
		close(q.done)
	})
	// Run 未启动时由 Close 收尾，之后启动的 Run 会立即返回
	if !q.started.Load() {
		q.stop()
	}
}

func (q *Queue) closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// stop 丢弃剩余请求并标记不再执行
func (q *Queue) stop() {
	q.stopOnce.Do(func() {
	drain:
		for {
			select {
			case <-q.requests:
			default:
				break drain
			}
		}
		close(q.stopped)
	})
}

// Len 返回排队中的操作数
func (q *Queue) Len() int {
	return len(q.requests)
}
