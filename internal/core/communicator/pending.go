// Package communicator 提供设备链路通信器核心实现
package communicator

import (
	"sync"

	"github.com/devlink/go-devlink/pkg/types"
)

// ============================================================================
//                              待处理请求
// ============================================================================

// resultCell 单次赋值的结果单元
//
// 最多完成一次，完成后 done 关闭，msg 可读。
type resultCell struct {
	done chan struct{}
	msg  types.AnyMessage
	once sync.Once
}

// newResultCell 创建结果单元
func newResultCell() *resultCell {
	return &resultCell{done: make(chan struct{})}
}

// complete 写入结果并标记完成
//
// 仅第一次调用生效，后续调用被忽略。
func (c *resultCell) complete(msg types.AnyMessage) {
	c.once.Do(func() {
		c.msg = msg
		close(c.done)
	})
}

// completed 结果是否已写入
func (c *resultCell) completed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// pendingRequest 待处理请求表项
//
// 表项由调度协程独占持有，以调度协程分配的递增 ID 为键，
// 不依赖闭包的对象标识。
type pendingRequest struct {
	// predicate 复合判定：先固定的身份匹配，再可选的调用方细化判定
	predicate func(types.AnyMessage) bool

	// cell 结果单元
	cell *resultCell
}

// newPendingRequest 创建待处理请求表项
func newPendingRequest(predicate func(types.AnyMessage) bool) *pendingRequest {
	return &pendingRequest{
		predicate: predicate,
		cell:      newResultCell(),
	}
}
