// Package communicator 提供设备链路通信器核心实现
package communicator

import (
	"context"
	"fmt"
	"time"

	"github.com/devlink/go-devlink/pkg/types"
)

// ============================================================================
//                              发送
// ============================================================================

// Send 发送一条消息（即发即弃）
//
// 应用消息要求已绑定协议版本；标准消息与标准类型标记直接转发给通道。
// 消息进入通道的发送队列后立即返回，不等待 I/O 完成。
func (c *Communicator) Send(out types.Outgoing) error {
	if !c.IsOpen() {
		return ErrClosed
	}

	switch m := out.(type) {
	case *types.Message:
		b := c.binding.Load()
		if b == nil {
			return ErrNoCodec
		}
		typeCode, payload, err := b.codec.Encode(m)
		if err != nil {
			return err
		}
		return c.ch.SendApplication(typeCode, payload)

	case types.StandardMessage:
		return c.ch.SendStandard(m)

	case types.StandardType:
		msg, err := types.NewStandardMessage(m)
		if err != nil {
			return err
		}
		return c.ch.SendStandard(msg)

	default:
		return fmt.Errorf("invalid outgoing message type: %T", out)
	}
}

// ============================================================================
//                              请求响应
// ============================================================================

// Request 发送消息并等待匹配的响应
//
// 判定顺序固定：先做不可覆盖的身份匹配（应用消息比较类型标签，
// 标准消息比较标准类型），通过后才执行调用方提供的细化判定。
// 细化判定 panic 被记录并按不匹配处理，不影响其他待处理请求。
//
// 超时返回 (nil, nil)——"未观察到响应"是一等结果，不是错误；
// ctx 取消返回 ctx.Err()，与超时可区分。
// 无论匹配、超时还是出错，表项都恰好被移除一次。
func (c *Communicator) Request(
	ctx context.Context,
	out types.Outgoing,
	timeout time.Duration,
	predicate func(types.AnyMessage) bool,
) (types.AnyMessage, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTimeout, timeout)
	}

	// 先登记表项、等调度协程确认，再发送：
	// 响应不可能先于表项到达调度协程，发送失败时由 defer 移除表项
	entry := newPendingRequest(compositePredicate(out, predicate))
	id, ok := c.register(entry)
	if !ok {
		return nil, ErrClosed
	}
	defer c.unregister(id)

	if err := c.Send(out); err != nil {
		return nil, err
	}

	timer := c.clock.Timer(timeout)
	defer timer.Stop()

	select {
	case <-entry.cell.done:
		return entry.cell.msg, nil
	case <-timer.C:
		log.Debug("请求超时", "id", id, "timeout", timeout)
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.stopCh:
		return nil, ErrClosed
	}
}

// register 向调度协程登记待处理请求
func (c *Communicator) register(entry *pendingRequest) (uint64, bool) {
	cmd := registerCmd{entry: entry, reply: make(chan uint64, 1)}
	select {
	case c.cmdCh <- cmd:
	case <-c.stopCh:
		return 0, false
	}
	select {
	case id := <-cmd.reply:
		return id, true
	case <-c.stopCh:
		return 0, false
	}
}

// unregister 从调度协程移除待处理请求
//
// 等待移除完成后返回，保证调用方返回时不残留表项。
func (c *Communicator) unregister(id uint64) {
	cmd := unregisterCmd{id: id, done: make(chan struct{})}
	select {
	case c.cmdCh <- cmd:
	case <-c.stopCh:
		return
	}
	select {
	case <-cmd.done:
	case <-c.stopCh:
	}
}

// ============================================================================
//                              匹配判定
// ============================================================================

// compositePredicate 构造复合判定
//
// 身份匹配是固定的第一道门，调用方细化判定在其后执行。
func compositePredicate(ref types.Outgoing, refinement func(types.AnyMessage) bool) func(types.AnyMessage) bool {
	return func(candidate types.AnyMessage) (match bool) {
		if !matchIdentity(ref, candidate) {
			return false
		}
		if refinement == nil {
			return true
		}

		defer func() {
			if r := recover(); r != nil {
				log.Error("响应细化判定 panic，按不匹配处理", "ref", fmt.Sprintf("%v", ref), "panic", r)
				match = false
			}
		}()
		return refinement(candidate)
	}
}

// matchIdentity 消息身份匹配
//
// 应用消息比较类型标签，标准消息比较标准类型标记。
// 无法识别的组合按不匹配处理（安全默认）。
func matchIdentity(ref types.Outgoing, candidate types.AnyMessage) bool {
	switch r := ref.(type) {
	case *types.Message:
		if m, ok := candidate.(*types.Message); ok {
			return m.Type == r.Type
		}

	case types.StandardType:
		if m, ok := candidate.(types.StandardMessage); ok {
			return m.Standard() == r
		}

	case types.StandardMessage:
		if m, ok := candidate.(types.StandardMessage); ok {
			return m.Standard() == r.Standard()
		}
	}
	return false
}
