// Package channel 提供传输通道实现（串口与回环）
package channel

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tec "github.com/jbenet/go-temp-err-catcher"
	"github.com/tarm/serial"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	"github.com/devlink/go-devlink/pkg/types"
)

// rxBufferSize 接收队列容量
//
// 消费者长时间不取时丢弃新到达的项，避免无限积压。
const rxBufferSize = 1024

// ============================================================================
//                              串口通道
// ============================================================================

// Serial 串口传输通道
//
// 后台读协程持续读取端口并解帧，结果进入接收队列。
// 发送与接收可并发：发送加写锁，接收走队列。
type Serial struct {
	portName string
	cfg      config.Config
	port     *serial.Port

	rx         chan types.Received
	closedCh   chan struct{}
	readerDone chan struct{}

	open     int32
	writeMu  sync.Mutex
	shutOnce sync.Once
	closeErr error
}

// 确保实现接口
var _ channelif.Channel = (*Serial)(nil)

// newSerial 打开串口通道
func newSerial(portName string, cfg config.Config) (*Serial, error) {
	readTimeout := cfg.Serial.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = cfg.ReceivePollTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        portName,
		Baud:        cfg.Serial.BaudRate,
		Parity:      serial.ParityNone,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", portName, err)
	}

	s := &Serial{
		portName:   portName,
		cfg:        cfg,
		port:       port,
		rx:         make(chan types.Received, rxBufferSize),
		closedCh:   make(chan struct{}),
		readerDone: make(chan struct{}),
		open:       1,
	}
	go s.readLoop()

	log.Info("串口通道已打开", "port", portName, "baud", cfg.Serial.BaudRate)
	return s, nil
}

// readLoop 后台读协程
//
// 持续读取端口字节并送入解帧状态机。临时性读错误容忍后重试，
// 致命错误触发通道关闭。
func (s *Serial) readLoop() {
	defer close(s.readerDone)

	framer := newFramer(s.cfg.MaxPayloadSize, s.cfg.FrameTimeout)
	catcher := tec.TempErrCatcher{}
	buf := make([]byte, 4096)

	for {
		select {
		case <-s.closedCh:
			return
		default:
		}

		n, err := s.port.Read(buf)
		now := time.Now()

		if err != nil {
			if catcher.IsTemporary(err) {
				log.Debug("串口临时读错误，继续", "err", err)
				continue
			}
			log.Warn("串口读取失败，关闭通道", "port", s.portName, "err", err)
			s.shutdown()
			return
		}

		var items []types.Received
		if n == 0 {
			// 读超时，无数据；推进帧超时与诊断字节冲刷
			items = framer.Tick(now)
		} else {
			items = framer.Feed(buf[:n], now)
		}
		for _, item := range items {
			s.deliver(item)
		}
	}
}

// deliver 将接收结果送入队列，满时丢弃
func (s *Serial) deliver(item types.Received) {
	select {
	case s.rx <- item:
	default:
		log.Warn("接收队列已满，丢弃", "item", fmt.Sprintf("%T", item))
	}
}

// Receive 带超时的阻塞接收
func (s *Serial) Receive(timeout time.Duration) (types.Received, error) {
	// 先非阻塞取，通道关闭后仍可取出残留项
	select {
	case item := <-s.rx:
		return item, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case item := <-s.rx:
		return item, nil
	case <-s.closedCh:
		return nil, channelif.ErrChannelClosed
	case <-timer.C:
		return nil, nil
	}
}

// SendStandard 发送标准消息
func (s *Serial) SendStandard(msg types.StandardMessage) error {
	payload, err := encodeStandard(msg)
	if err != nil {
		return err
	}
	return s.sendFrame(types.StandardFrameCode, payload)
}

// SendApplication 发送应用帧
func (s *Serial) SendApplication(typeCode types.FrameTypeCode, payload []byte) error {
	if typeCode == types.StandardFrameCode {
		return ErrReservedFrameCode
	}
	return s.sendFrame(typeCode, payload)
}

// sendFrame 编码并写出一帧
func (s *Serial) sendFrame(typeCode types.FrameTypeCode, payload []byte) error {
	if !s.IsOpen() {
		return channelif.ErrChannelClosed
	}

	frame, err := encodeFrame(typeCode, payload, s.cfg.MaxPayloadSize)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("write serial port %q: %w", s.portName, err)
	}
	return nil
}

// shutdown 进入关闭状态（幂等，读协程内部也会调用）
func (s *Serial) shutdown() {
	s.shutOnce.Do(func() {
		atomic.StoreInt32(&s.open, 0)
		close(s.closedCh)
		s.closeErr = s.port.Close()
		log.Info("串口通道已关闭", "port", s.portName)
	})
}

// Close 关闭通道并等待读协程退出
func (s *Serial) Close() error {
	s.shutdown()
	<-s.readerDone
	return s.closeErr
}

// IsOpen 通道是否打开
func (s *Serial) IsOpen() bool {
	return atomic.LoadInt32(&s.open) == 1
}

// PortName 打开时使用的端口名
func (s *Serial) PortName() string {
	return s.portName
}
