// Package communicator 提供设备链路通信器核心实现
package communicator

import (
	"errors"
	"fmt"
	"strings"

	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	"github.com/devlink/go-devlink/pkg/types"
)

// ============================================================================
//                              IO 工作协程
// ============================================================================

// ioWorker IO 工作协程主循环
//
// 专职做阻塞接收，不允许触碰调度状态；唯一的出口是线程安全的
// itemCh 交接通道与诊断队列的入队。
//
// 错误容忍：连续错误计数超过上限后停止并关闭通道，
// 任何一次成功接收都会把计数清零。无论因何退出，通道最终都被关闭。
func (c *Communicator) ioWorker() {
	defer close(c.ioDone)
	defer func() { _ = c.ch.Close() }()

	errorCount := 0
	for c.ch.IsOpen() {
		item, err := c.ch.Receive(c.cfg.ReceivePollTimeout)

		if errors.Is(err, channelif.ErrChannelClosed) {
			log.Info("通道已关闭，IO 工作协程退出", "err", err)
			return
		}
		if err != nil {
			errorCount++
			log.Error("IO 工作协程接收异常",
				"err", err, "count", errorCount, "limit", c.cfg.IOWorkerErrorLimit)
			if errorCount > c.cfg.IOWorkerErrorLimit {
				log.Error("连续错误过多，IO 工作协程停止")
				c.ioErr = fmt.Errorf("%w: %d", ErrIOWorkerErrorLimit, errorCount)
				return
			}
			continue
		}
		errorCount = 0

		switch v := item.(type) {
		case nil:
			// 本次轮询无数据

		case types.LogBytes:
			// 尽力而为的文本解码：非法序列替换，绝不致命
			text := strings.ToValidUTF8(string(v), "�")
			log.Debug("收到诊断文本", "len", len(text))
			c.logQueue.Push(text)

		default:
			select {
			case c.itemCh <- v:
			case <-c.stopCh:
				return
			}
		}
	}
	log.Info("IO 工作协程停止")
}
