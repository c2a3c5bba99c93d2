package devlink

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
)

// ════════════════════════════════════════════════════════════════════════════
//                              选项
// ════════════════════════════════════════════════════════════════════════════

// options Open 的可配置项
type options struct {
	cfg     config.Config
	clock   clock.Clock
	channel channelif.Channel
	factory codecif.Factory
}

// Option 配置 Open 行为的选项
type Option func(*options)

// WithConfig 使用完整配置替换默认配置
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithBaudRate 设置串口波特率
func WithBaudRate(baud int) Option {
	return func(o *options) { o.cfg.Serial.BaudRate = baud }
}

// WithMaxPayloadSize 设置最大帧载荷
func WithMaxPayloadSize(size int) Option {
	return func(o *options) { o.cfg.MaxPayloadSize = size }
}

// WithFrameTimeout 设置单帧接收超时
func WithFrameTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.FrameTimeout = d }
}

// WithClock 注入时钟（测试用）
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

// WithChannel 使用自定义传输通道，忽略端口名
//
// 用于接入自定义传输实现或测试替身。
func WithChannel(ch channelif.Channel) Option {
	return func(o *options) { o.channel = ch }
}

// WithCodecFactory 使用自定义编解码器工厂
func WithCodecFactory(factory codecif.Factory) Option {
	return func(o *options) { o.factory = factory }
}
