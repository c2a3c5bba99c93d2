// Package queue 提供无界 FIFO 队列
//
// 队列采用消息传递实现：入队与出队通过内部 channel 与泵协程交互，
// 运行期间跨协程传递无需共享可变状态；仅关闭时的残留缓冲交接加锁。
// 保序：出队顺序与入队顺序一致。
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed 队列已关闭且缓冲已取尽
var ErrQueueClosed = errors.New("queue closed")

// Unbounded 无界 FIFO 队列
//
// Push 永不阻塞，Pop 阻塞直到有数据或 ctx 取消。
// 关闭后入队被丢弃，关闭前已入队的数据仍可按序取出，
// 取尽后 Pop 返回 ErrQueueClosed。
type Unbounded[T any] struct {
	in        chan T
	out       chan T
	closed    chan struct{}
	drained   chan struct{}
	closeOnce sync.Once

	// leftover 泵协程退出时移交的残留缓冲，drained 关闭后在锁下消费
	mu       sync.Mutex
	leftover []T
}

// NewUnbounded 创建无界队列
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{
		in:      make(chan T),
		out:     make(chan T),
		closed:  make(chan struct{}),
		drained: make(chan struct{}),
	}
	go q.pump()
	return q
}

// pump 泵协程：独占持有缓冲区，在入口与出口之间搬运
//
// 关闭时把未消费的缓冲移交给 leftover，随后关闭 drained 并退出。
func (q *Unbounded[T]) pump() {
	var buf []T
	for {
		// 缓冲为空时只等待入队或关闭
		if len(buf) == 0 {
			select {
			case v := <-q.in:
				buf = append(buf, v)
			case <-q.closed:
				q.handoff(buf)
				return
			}
			continue
		}

		select {
		case v := <-q.in:
			buf = append(buf, v)
		case q.out <- buf[0]:
			buf = buf[1:]
		case <-q.closed:
			q.handoff(buf)
			return
		}
	}
}

// handoff 移交残留缓冲并标记取尽通道可用
func (q *Unbounded[T]) handoff(buf []T) {
	q.mu.Lock()
	q.leftover = buf
	q.mu.Unlock()
	close(q.drained)
}

// takeLeftover 从残留缓冲按序取出一项
func (q *Unbounded[T]) takeLeftover() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.leftover) == 0 {
		return zero, false
	}
	v := q.leftover[0]
	q.leftover = q.leftover[1:]
	return v, true
}

// Push 入队
//
// 队列已关闭时静默丢弃。
func (q *Unbounded[T]) Push(v T) {
	select {
	case q.in <- v:
	case <-q.closed:
	}
}

// Pop 出队
//
// 阻塞直到有数据、ctx 取消或队列关闭且缓冲取尽。
func (q *Unbounded[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-q.out:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-q.drained:
		if v, ok := q.takeLeftover(); ok {
			return v, nil
		}
		return zero, ErrQueueClosed
	}
}

// TryPop 非阻塞出队
func (q *Unbounded[T]) TryPop() (T, bool) {
	select {
	case v := <-q.out:
		return v, true
	case <-q.drained:
		return q.takeLeftover()
	default:
		var zero T
		return zero, false
	}
}

// Close 关闭队列
//
// 幂等。关闭后 Push 丢弃数据，Pop 先取尽已入队的数据再返回 ErrQueueClosed。
func (q *Unbounded[T]) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}
