// Package config 提供 go-devlink 的配置管理
//
// 使用示例：
//
//	cfg := config.DefaultConfig()
//	cfg.Serial.BaudRate = 921600
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"errors"
	"fmt"
	"time"
)

// 配置默认值
const (
	// DefaultMaxPayloadSize 最大帧载荷（字节）
	DefaultMaxPayloadSize = 1024

	// DefaultFrameTimeout 单帧接收超时
	//
	// 帧开始后超过该时长仍未结束，缓冲的字节按诊断文本处理。
	DefaultFrameTimeout = 500 * time.Millisecond

	// DefaultReceivePollTimeout IO 工作协程单次接收轮询超时
	DefaultReceivePollTimeout = 100 * time.Millisecond

	// DefaultIOWorkerErrorLimit IO 工作协程连续错误上限
	//
	// 连续错误超过上限后链路被判定为不可恢复，通道关闭。
	DefaultIOWorkerErrorLimit = 100

	// DefaultBaudRate 串口波特率
	DefaultBaudRate = 115200
)

// Config go-devlink 完整配置
type Config struct {
	// MaxPayloadSize 最大帧载荷（字节）
	MaxPayloadSize int

	// FrameTimeout 单帧接收超时
	FrameTimeout time.Duration

	// ReceivePollTimeout IO 工作协程单次接收轮询超时
	ReceivePollTimeout time.Duration

	// IOWorkerErrorLimit IO 工作协程连续错误上限
	IOWorkerErrorLimit int

	// Serial 串口配置
	Serial SerialConfig
}

// SerialConfig 串口配置
type SerialConfig struct {
	// BaudRate 波特率
	BaudRate int

	// ReadTimeout 底层端口单次读超时
	//
	// 0 表示使用 ReceivePollTimeout。
	ReadTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxPayloadSize:     DefaultMaxPayloadSize,
		FrameTimeout:       DefaultFrameTimeout,
		ReceivePollTimeout: DefaultReceivePollTimeout,
		IOWorkerErrorLimit: DefaultIOWorkerErrorLimit,
		Serial: SerialConfig{
			BaudRate: DefaultBaudRate,
		},
	}
}

// ErrInvalidConfig 配置非法
var ErrInvalidConfig = errors.New("invalid config")

// Validate 校验配置
func (c *Config) Validate() error {
	if c.MaxPayloadSize <= 0 {
		return fmt.Errorf("%w: max payload size must be positive, got %d", ErrInvalidConfig, c.MaxPayloadSize)
	}
	if c.FrameTimeout <= 0 {
		return fmt.Errorf("%w: frame timeout must be positive, got %v", ErrInvalidConfig, c.FrameTimeout)
	}
	if c.ReceivePollTimeout <= 0 {
		return fmt.Errorf("%w: receive poll timeout must be positive, got %v", ErrInvalidConfig, c.ReceivePollTimeout)
	}
	if c.IOWorkerErrorLimit <= 0 {
		return fmt.Errorf("%w: io worker error limit must be positive, got %d", ErrInvalidConfig, c.IOWorkerErrorLimit)
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate must be positive, got %d", ErrInvalidConfig, c.Serial.BaudRate)
	}
	return nil
}
