package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnbounded_FIFO 测试出队顺序与入队顺序一致
func TestUnbounded_FIFO(t *testing.T) {
	q := NewUnbounded[int]()
	defer q.Close()

	for i := 0; i < 100; i++ {
		q.Push(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		v, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}

	t.Log("✅ Unbounded FIFO 测试通过")
}

// TestUnbounded_PushNeverBlocks 测试无消费者时入队不阻塞
func TestUnbounded_PushNeverBlocks(t *testing.T) {
	q := NewUnbounded[int]()
	defer q.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			q.Push(i)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Push 发生阻塞")
	}

	t.Log("✅ Unbounded Push 不阻塞测试通过")
}

// TestUnbounded_PopBlocksUntilPush 测试出队阻塞直到有数据
func TestUnbounded_PopBlocksUntilPush(t *testing.T) {
	q := NewUnbounded[string]()
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push("hello")
	}()

	v, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	t.Log("✅ Unbounded Pop 阻塞等待测试通过")
}

// TestUnbounded_PopContextCancel 测试 ctx 取消使出队返回
func TestUnbounded_PopContextCancel(t *testing.T) {
	q := NewUnbounded[int]()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	t.Log("✅ Unbounded ctx 取消测试通过")
}

// TestUnbounded_TryPop 测试非阻塞出队
func TestUnbounded_TryPop(t *testing.T) {
	q := NewUnbounded[int]()
	defer q.Close()

	_, ok := q.TryPop()
	assert.False(t, ok, "空队列 TryPop 应返回 false")

	q.Push(42)

	// 泵协程搬运需要一点时间
	require.Eventually(t, func() bool {
		v, ok := q.TryPop()
		return ok && v == 42
	}, time.Second, time.Millisecond)

	t.Log("✅ Unbounded TryPop 测试通过")
}

// TestUnbounded_Close 测试关闭行为
func TestUnbounded_Close(t *testing.T) {
	t.Run("PopAfterClose", func(t *testing.T) {
		q := NewUnbounded[int]()
		q.Close()

		_, err := q.Pop(context.Background())
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("PushAfterClose", func(t *testing.T) {
		q := NewUnbounded[int]()
		q.Close()

		// 不应 panic 或阻塞
		q.Push(1)
	})

	t.Run("CloseIdempotent", func(t *testing.T) {
		q := NewUnbounded[int]()
		q.Close()
		q.Close()
	})

	t.Log("✅ Unbounded Close 测试通过")
}

// TestUnbounded_DrainAfterClose 测试关闭前入队的数据在关闭后仍可按序取尽
func TestUnbounded_DrainAfterClose(t *testing.T) {
	q := NewUnbounded[int]()

	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 10; i++ {
		v, err := q.Pop(ctx)
		require.NoError(t, err, "关闭不应丢弃已入队的第 %d 项", i)
		assert.Equal(t, i, v)
	}

	// 取尽后才报告关闭
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)

	// 关闭后的入队仍被丢弃
	q.Push(99)
	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)

	t.Log("✅ 关闭后取尽测试通过")
}
