package devlink

import (
	"context"
	"time"

	"github.com/devlink/go-devlink/config"
	"github.com/devlink/go-devlink/internal/core/channel"
	"github.com/devlink/go-devlink/internal/core/codec"
	"github.com/devlink/go-devlink/internal/core/communicator"
)

// ════════════════════════════════════════════════════════════════════════════
//                              公共 API: Communicator
// ════════════════════════════════════════════════════════════════════════════

// LoopbackPortName 内置回环端口名
//
// 打开该端口得到一个无硬件的回环链路，发送内容原样回到接收侧。
const LoopbackPortName = channel.LoopbackPortName

// Communicator 设备链路通信器
//
// 所有方法可被任意协程并发调用。
type Communicator struct {
	inner *communicator.Communicator
}

// Open 打开到设备的链路并启动后台收发
//
// portName 为串口设备路径（如 "/dev/ttyACM0"），或 LoopbackPortName。
//
// 使用示例：
//
//	com, err := devlink.Open("/dev/ttyACM0",
//	    devlink.WithBaudRate(921600),
//	)
func Open(portName string, opts ...Option) (*Communicator, error) {
	o := &options{
		cfg:     config.DefaultConfig(),
		factory: codec.New,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	ch := o.channel
	if ch == nil {
		var err error
		ch, err = channel.Open(portName, o.cfg)
		if err != nil {
			return nil, err
		}
	}

	inner, err := communicator.New(ch, o.factory, o.cfg, o.clock)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &Communicator{inner: inner}, nil
}

// Send 发送一条消息（即发即弃）
//
// 应用消息要求先 SetProtocolVersion，否则返回 ErrNoCodec。
func (c *Communicator) Send(out Outgoing) error {
	return c.inner.Send(out)
}

// Request 发送消息并等待匹配的响应
//
// 响应先经过固定的身份匹配（与发送的消息同类型），再经过可选的
// predicate 细化判定。超时返回 (nil, nil)，与 ctx 取消（返回 ctx.Err()）
// 可区分。timeout 必须为正。
//
// 使用示例：
//
//	resp, err := com.Request(ctx, msg, time.Second, func(m devlink.AnyMessage) bool {
//	    v, _ := m.(*devlink.Message).Int("x")
//	    return v == 5
//	})
func (c *Communicator) Request(
	ctx context.Context,
	out Outgoing,
	timeout time.Duration,
	predicate func(AnyMessage) bool,
) (AnyMessage, error) {
	return c.inner.Request(ctx, out, timeout, predicate)
}

// Receive 取出下一条未被任何请求匹配的入站消息
func (c *Communicator) Receive(ctx context.Context) (AnyMessage, error) {
	return c.inner.Receive(ctx)
}

// ReceiveLog 取出下一段设备诊断文本
func (c *Communicator) ReceiveLog(ctx context.Context) (string, error) {
	return c.inner.ReceiveLog(ctx)
}

// SetProtocolVersion 设置当前协议版本
//
// 可随时（重复）设置，原子生效，只影响之后的编解码。
func (c *Communicator) SetProtocolVersion(v ProtocolVersion) error {
	return c.inner.SetProtocolVersion(v)
}

// ProtocolVersion 返回当前协议版本，未设置时第二个返回值为 false
func (c *Communicator) ProtocolVersion() (ProtocolVersion, bool) {
	return c.inner.ProtocolVersion()
}

// Close 关闭链路
//
// 等待 IO 工作协程退出并关闭传输通道。幂等。
func (c *Communicator) Close() error {
	return c.inner.Close()
}

// IsOpen 链路是否打开
func (c *Communicator) IsOpen() bool {
	return c.inner.IsOpen()
}

// PortName 返回链路端口名
func (c *Communicator) PortName() string {
	return c.inner.PortName()
}
