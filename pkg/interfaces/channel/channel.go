// Package channel 定义传输通道接口
//
// 传输通道负责物理链路上的帧收发：
// - 打开/关闭物理端口
// - 带超时的阻塞接收
// - 标准消息与应用帧的发送
//
// 通道实现必须对并发的发送（消费者上下文）与接收（IO 工作线程）线程安全。
package channel

import (
	"errors"
	"time"

	"github.com/devlink/go-devlink/pkg/types"
)

// ErrChannelClosed 通道已关闭
//
// 底层传输消失后，Receive 必须返回可区分的该错误（可被 errors.Is 识别）。
var ErrChannelClosed = errors.New("channel closed")

// ============================================================================
//                              Channel 接口
// ============================================================================

// Channel 传输通道接口
//
// Channel 抽象了到嵌入式设备的物理链路（串口、回环等）。
type Channel interface {
	// Receive 带超时的阻塞接收
	//
	// 返回以下三种结果之一，超时无数据时返回 (nil, nil)：
	//   - types.LogBytes: 帧外诊断字节
	//   - types.StandardMessage: 已解码的标准消息
	//   - *types.ReceivedFrame: 原始应用帧
	//
	// 通道关闭后返回 ErrChannelClosed。
	Receive(timeout time.Duration) (types.Received, error)

	// SendStandard 发送标准消息
	//
	// 非阻塞：消息进入通道内部的发送队列后立即返回。
	SendStandard(msg types.StandardMessage) error

	// SendApplication 发送应用帧
	SendApplication(typeCode types.FrameTypeCode, payload []byte) error

	// Close 关闭通道
	//
	// 幂等：重复关闭返回 nil。
	Close() error

	// IsOpen 通道是否打开
	IsOpen() bool

	// PortName 打开时使用的端口名
	PortName() string
}
