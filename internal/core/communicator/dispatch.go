// Package communicator 提供设备链路通信器核心实现
package communicator

// ============================================================================
//                              调度协程
// ============================================================================
//
// 调度协程是唯一修改待处理请求表的执行上下文。
// 入站项与公共操作的命令都通过 channel 进入，表本身无需加锁。

import (
	"github.com/devlink/go-devlink/pkg/types"
)

// dispatchCmd 调度协程命令
type dispatchCmd interface {
	isDispatchCmd()
}

// registerCmd 登记待处理请求，回复分配的 ID
type registerCmd struct {
	entry *pendingRequest
	reply chan uint64
}

// unregisterCmd 移除待处理请求，完成后关闭 done
type unregisterCmd struct {
	id   uint64
	done chan struct{}
}

// pendingLenCmd 查询待处理请求数（测试用）
type pendingLenCmd struct {
	reply chan int
}

func (registerCmd) isDispatchCmd()   {}
func (unregisterCmd) isDispatchCmd() {}
func (pendingLenCmd) isDispatchCmd() {}

// dispatchLoop 调度协程主循环
func (c *Communicator) dispatchLoop() {
	defer close(c.dispatchDone)

	for {
		select {
		case item := <-c.itemCh:
			c.processItem(item)
		case cmd := <-c.cmdCh:
			c.handleCommand(cmd)
		case <-c.stopCh:
			return
		}
	}
}

// handleCommand 处理一条调度命令
func (c *Communicator) handleCommand(cmd dispatchCmd) {
	switch v := cmd.(type) {
	case registerCmd:
		c.nextID++
		c.pending[c.nextID] = v.entry
		v.reply <- c.nextID

	case unregisterCmd:
		delete(c.pending, v.id)
		close(v.done)

	case pendingLenCmd:
		v.reply <- len(c.pending)
	}
}

// processItem 处理一个入站项（标准消息或原始应用帧）
//
// 解码失败只丢弃该项并告警，不影响链路。
func (c *Communicator) processItem(item types.Received) {
	var msg types.AnyMessage

	switch v := item.(type) {
	case types.StandardMessage:
		msg = v

	case *types.ReceivedFrame:
		b := c.binding.Load()
		if b == nil {
			log.Warn("未绑定协议版本，无法解释应用帧，丢弃", "frame", v.String())
			return
		}
		decoded, err := b.codec.Decode(v)
		if err != nil {
			log.Warn("应用帧解码失败，丢弃", "frame", v.String(), "err", err)
			return
		}
		msg = decoded

	default:
		log.Warn("无法处理的入站项，丢弃", "item", item)
		return
	}

	c.matchOrEnqueue(msg)
}

// matchOrEnqueue 用入站消息完成所有匹配的待处理请求，无匹配时入队
//
// 一条消息可以同时完成多个待处理请求（广播式完成），这是有意的设计。
// 表项的移除由各请求方在返回前完成，调度协程只负责写结果。
func (c *Communicator) matchOrEnqueue(msg types.AnyMessage) {
	matched := false
	for id, entry := range c.pending {
		if entry.cell.completed() {
			continue
		}
		if entry.predicate(msg) {
			matched = true
			entry.cell.complete(msg)
			log.Debug("请求已匹配响应", "id", id)
		}
	}

	if !matched {
		c.msgQueue.Push(msg)
	}
}

// pendingLen 返回待处理请求数（测试用）
func (c *Communicator) pendingLen() int {
	cmd := pendingLenCmd{reply: make(chan int, 1)}
	select {
	case c.cmdCh <- cmd:
	case <-c.stopCh:
		return 0
	}
	select {
	case n := <-cmd.reply:
		return n
	case <-c.stopCh:
		return 0
	}
}
