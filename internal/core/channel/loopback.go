// Package channel 提供传输通道实现（串口与回环）
package channel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	"github.com/devlink/go-devlink/pkg/types"
)

// ============================================================================
//                              回环通道
// ============================================================================

// Loopback 回环传输通道
//
// 发送的所有内容原样回到接收侧：标准消息做一次编解码往返，
// 应用帧以原始帧形式回送。用于无硬件的联调与测试。
// 可通过 Inject 系列方法模拟设备侧的主动输出。
type Loopback struct {
	cfg config.Config

	rx       chan types.Received
	closedCh chan struct{}

	open     int32
	shutOnce sync.Once
}

// 确保实现接口
var _ channelif.Channel = (*Loopback)(nil)

// NewLoopback 创建回环通道
func NewLoopback(cfg config.Config) *Loopback {
	log.Info("回环通道已打开")
	return &Loopback{
		cfg:      cfg,
		rx:       make(chan types.Received, rxBufferSize),
		closedCh: make(chan struct{}),
		open:     1,
	}
}

// Receive 带超时的阻塞接收
func (l *Loopback) Receive(timeout time.Duration) (types.Received, error) {
	select {
	case item := <-l.rx:
		return item, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case item := <-l.rx:
		return item, nil
	case <-l.closedCh:
		return nil, channelif.ErrChannelClosed
	case <-timer.C:
		return nil, nil
	}
}

// SendStandard 发送标准消息（编解码往返后回送）
func (l *Loopback) SendStandard(msg types.StandardMessage) error {
	if !l.IsOpen() {
		return channelif.ErrChannelClosed
	}

	payload, err := encodeStandard(msg)
	if err != nil {
		return err
	}
	decoded, err := decodeStandard(payload)
	if err != nil {
		return err
	}
	l.Inject(decoded)
	return nil
}

// SendApplication 发送应用帧（以原始帧形式回送）
func (l *Loopback) SendApplication(typeCode types.FrameTypeCode, payload []byte) error {
	if !l.IsOpen() {
		return channelif.ErrChannelClosed
	}
	if typeCode == types.StandardFrameCode {
		return ErrReservedFrameCode
	}
	if len(payload) > l.cfg.MaxPayloadSize {
		return ErrPayloadTooLarge
	}

	p := make([]byte, len(payload))
	copy(p, payload)
	l.Inject(&types.ReceivedFrame{TypeCode: typeCode, Payload: p})
	return nil
}

// Inject 向接收侧注入一项（模拟设备输出）
//
// 队列满或通道已关闭时静默丢弃。
func (l *Loopback) Inject(item types.Received) {
	select {
	case <-l.closedCh:
	default:
		select {
		case l.rx <- item:
		default:
			log.Warn("回环接收队列已满，丢弃")
		}
	}
}

// InjectLogBytes 向接收侧注入诊断字节
func (l *Loopback) InjectLogBytes(b []byte) {
	data := make(types.LogBytes, len(b))
	copy(data, b)
	l.Inject(data)
}

// Close 关闭通道
func (l *Loopback) Close() error {
	l.shutOnce.Do(func() {
		atomic.StoreInt32(&l.open, 0)
		close(l.closedCh)
		log.Info("回环通道已关闭")
	})
	return nil
}

// IsOpen 通道是否打开
func (l *Loopback) IsOpen() bool {
	return atomic.LoadInt32(&l.open) == 1
}

// PortName 返回回环端口名
func (l *Loopback) PortName() string {
	return LoopbackPortName
}
