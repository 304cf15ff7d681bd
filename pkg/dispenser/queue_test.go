package dispenser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startQueue(t *testing.T, q *Queue) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestQueue_Submit(t *testing.T) {
	q := NewQueue(MustNew(2), 4)
	stop := startQueue(t, q)
	defer stop()

	ctx := context.Background()
	r, err := q.Submit(ctx, InsertToken)
	require.NoError(t, err)
	assert.True(t, r.Accepted)

	r, err = q.Submit(ctx, Dispense)
	require.NoError(t, err)
	assert.Equal(t, NoToken, r.State)
	assert.Equal(t, 1, r.Inventory)
	assert.Same(t, q.Machine(), q.Machine())
}

func TestQueue_PostIsOrdered(t *testing.T) {
	q := NewQueue(MustNew(3), 8)
	ctx := context.Background()

	require.NoError(t, q.Post(ctx, InsertToken))
	require.NoError(t, q.Post(ctx, Dispense))
	assert.Equal(t, 2, q.Len())

	stop := startQueue(t, q)
	defer stop()

	r, err := q.Submit(ctx, InsertToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), r.Seq)
	assert.Equal(t, 2, r.Inventory)
}

func TestQueue_Closed(t *testing.T) {
	q := NewQueue(MustNew(1), 1)
	q.Close()
	q.Close()

	_, err := q.Submit(context.Background(), InsertToken)
	assert.True(t, errors.Is(err, ErrQueueClosed))
	assert.True(t, errors.Is(q.Post(context.Background(), InsertToken), ErrQueueClosed))
	assert.NoError(t, q.Run(context.Background()))
}

func TestQueue_SubmitContextTimeout(t *testing.T) {
	q := NewQueue(MustNew(1), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Submit(ctx, InsertToken)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, NoToken, q.Machine().State(), "未被处理的操作不应生效")
}

func TestQueue_SkipsCancelledRequests(t *testing.T) {
	q := NewQueue(MustNew(1), 2)

	ctx, cancel := context.WithCancel(context.Background())
	reply := make(chan Result, 1)
	require.NoError(t, q.enqueue(context.Background(), request{op: InsertToken, ctx: ctx, reply: reply}))
	cancel()

	stop := startQueue(t, q)
	defer stop()

	r, err := q.Submit(context.Background(), EjectToken)
	require.NoError(t, err)
	assert.Equal(t, NoTokenPresent, r.Reason)
	assert.Equal(t, uint64(1), r.Seq)
}

func TestQueue_SubmitAfterRunStopped(t *testing.T) {
	q := NewQueue(MustNew(1), 4)
	stop := startQueue(t, q)
	stop()

	done := make(chan error, 1)
	go func() {
		_, err := q.Submit(context.Background(), InsertToken)
		done <- err
	}()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrQueueClosed))
	case <-time.After(time.Second):
		t.Fatal("Run 退出后 Submit 不应阻塞")
	}
	assert.True(t, errors.Is(q.Post(context.Background(), InsertToken), ErrQueueClosed))
	assert.Equal(t, NoToken, q.Machine().State())
}

func TestQueue_NothingAppliedAfterClose(t *testing.T) {
	for i := 0; i < 200; i++ {
		q := NewQueue(MustNew(1), 4)
		require.NoError(t, q.Post(context.Background(), InsertToken))
		require.NoError(t, q.Post(context.Background(), EjectToken))
		q.Close()

		require.NoError(t, q.Run(context.Background()))
		s := q.Machine().Snapshot()
		require.Equal(t, uint64(0), s.Seq, "关闭后排队的操作不应执行 (第%d次)", i)
		require.Equal(t, 0, q.Len())
	}
}

func TestQueue_SubmitResultMatchesApplied(t *testing.T) {
	q := NewQueue(MustNew(100), 8)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = q.Run(context.Background())
	}()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied uint64
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				op := InsertToken
				if (g+i)%2 == 1 {
					op = EjectToken
				}
				_, err := q.Submit(context.Background(), op)
				if err != nil {
					assert.True(t, errors.Is(err, ErrQueueClosed))
					continue
				}
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}(g)
	}

	time.Sleep(5 * time.Millisecond)
	q.Close()
	wg.Wait()
	<-runDone

	assert.Equal(t, applied, q.Machine().Snapshot().Seq, "返回结果的提交数应等于实际执行数")
}
