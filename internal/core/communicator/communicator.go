// Package communicator 提供设备链路通信器核心实现
//
// 通信器位于应用与物理链路之间：
//   - 出站: 应用消息经编解码器编码后写入通道
//   - 入站: IO 工作协程阻塞接收，经线程安全的通道把结果交给调度协程
//   - 调度协程独占持有待处理请求表与两条入站队列，完成请求响应匹配
//
// 并发模型（必须保持）：
//   - 一个专用 IO 工作协程，只做阻塞接收，不触碰调度状态
//   - 一个调度协程，独占修改待处理请求表与队列，无需加锁
//   - 两者之间唯一的边界是 itemCh 这条线程安全的交接通道
package communicator

import (
	"context"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
	"github.com/devlink/go-devlink/pkg/types"

	"github.com/devlink/go-devlink/internal/util/logger"
	"github.com/devlink/go-devlink/internal/util/queue"
)

// 包级别日志实例
var log = logger.Logger("communicator")

// ============================================================================
//                              Communicator 实现
// ============================================================================

// codecBinding 当前生效的编解码器绑定
type codecBinding struct {
	version types.ProtocolVersion
	codec   codecif.Codec
}

// Communicator 设备链路通信器
type Communicator struct {
	ch      channelif.Channel
	factory codecif.Factory
	cfg     config.Config
	clock   clock.Clock

	// binding 编解码器绑定，未设置协议版本前为 nil
	binding atomic.Pointer[codecBinding]

	// itemCh IO 工作协程到调度协程的交接通道
	itemCh chan types.Received

	// cmdCh 公共操作到调度协程的命令通道
	cmdCh chan dispatchCmd

	// pending 待处理请求表，仅调度协程访问
	pending map[uint64]*pendingRequest

	// nextID 待处理请求 ID 计数器，仅调度协程访问
	nextID uint64

	// msgQueue 未被任何请求匹配的入站消息队列
	msgQueue *queue.Unbounded[types.AnyMessage]

	// logQueue 诊断文本队列
	logQueue *queue.Unbounded[string]

	// ioErr IO 工作协程的终止原因，ioDone 关闭前写入
	ioErr error

	closed       int32
	stopCh       chan struct{}
	ioDone       chan struct{}
	dispatchDone chan struct{}
	closeDone    chan struct{}
	closeErr     error
}

// New 创建通信器并启动 IO 工作协程与调度协程
func New(ch channelif.Channel, factory codecif.Factory, cfg config.Config, clk clock.Clock) (*Communicator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}

	c := &Communicator{
		ch:           ch,
		factory:      factory,
		cfg:          cfg,
		clock:        clk,
		itemCh:       make(chan types.Received),
		cmdCh:        make(chan dispatchCmd),
		pending:      make(map[uint64]*pendingRequest),
		msgQueue:     queue.NewUnbounded[types.AnyMessage](),
		logQueue:     queue.NewUnbounded[string](),
		stopCh:       make(chan struct{}),
		ioDone:       make(chan struct{}),
		dispatchDone: make(chan struct{}),
		closeDone:    make(chan struct{}),
	}

	go c.dispatchLoop()
	go c.ioWorker()

	log.Info("通信器已启动", "port", ch.PortName())
	return c, nil
}

// ============================================================================
//                              协议版本
// ============================================================================

// SetProtocolVersion 设置当前协议版本
//
// 协议版本决定应用消息的编码格式，可随时（重复）设置，
// 只影响之后的编解码。默认无版本，设置前只能收发标准消息。
func (c *Communicator) SetProtocolVersion(v types.ProtocolVersion) error {
	cdc, err := c.factory(v)
	if err != nil {
		return err
	}
	c.binding.Store(&codecBinding{version: v, codec: cdc})
	log.Info("协议版本已设置", "version", v.String())
	return nil
}

// ProtocolVersion 返回当前协议版本
//
// 未设置时返回 (零值, false)。
func (c *Communicator) ProtocolVersion() (types.ProtocolVersion, bool) {
	b := c.binding.Load()
	if b == nil {
		return types.ProtocolVersion{}, false
	}
	return b.version, true
}

// ============================================================================
//                              入站消费
// ============================================================================

// Receive 取出下一条未被任何请求匹配的入站消息
//
// 阻塞直到有消息或 ctx 取消。
func (c *Communicator) Receive(ctx context.Context) (types.AnyMessage, error) {
	msg, err := c.msgQueue.Pop(ctx)
	if err == queue.ErrQueueClosed {
		return nil, ErrClosed
	}
	return msg, err
}

// ReceiveLog 取出下一行诊断文本
//
// 阻塞直到有文本或 ctx 取消。
func (c *Communicator) ReceiveLog(ctx context.Context) (string, error) {
	line, err := c.logQueue.Pop(ctx)
	if err == queue.ErrQueueClosed {
		return "", ErrClosed
	}
	return line, err
}

// ============================================================================
//                              生命周期
// ============================================================================

// Close 关闭通信器
//
// 并发地等待 IO 工作协程退出并关闭传输通道，随后停止调度协程。
// 关闭前已入队的消息与诊断文本仍可被 Receive/ReceiveLog 取尽。
// 幂等：重复调用等待首次关闭完成并返回相同结果。
func (c *Communicator) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		<-c.closeDone
		return c.closeErr
	}
	defer close(c.closeDone)

	log.Info("通信器关闭中", "port", c.ch.PortName())
	close(c.stopCh)

	// 通道关闭与 IO 工作协程退出并发进行：
	// 关闭通道会使阻塞中的接收返回 ErrChannelClosed，从而解除 IO 协程
	chErrCh := make(chan error, 1)
	go func() { chErrCh <- c.ch.Close() }()

	<-c.ioDone
	<-c.dispatchDone

	c.msgQueue.Close()
	c.logQueue.Close()

	c.closeErr = multierr.Combine(c.ioErr, <-chErrCh)
	log.Info("通信器已关闭", "port", c.ch.PortName())
	return c.closeErr
}

// IsOpen 链路是否打开
//
// 通道被任一方（显式关闭或 IO 工作协程因故障关闭）关闭后返回 false。
func (c *Communicator) IsOpen() bool {
	return atomic.LoadInt32(&c.closed) == 0 && c.ch.IsOpen()
}

// PortName 返回链路端口名
func (c *Communicator) PortName() string {
	return c.ch.PortName()
}
