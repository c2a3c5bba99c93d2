// Package channel 提供传输通道实现（串口与回环）
package channel

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrPayloadTooLarge 载荷超出配置上限
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnknownPort 端口名无法识别
	ErrUnknownPort = errors.New("unknown port name")

	// ErrMalformedStandard 标准消息帧畸形
	ErrMalformedStandard = errors.New("malformed standard message frame")

	// ErrReservedFrameCode 帧类型码 0 保留给标准消息
	ErrReservedFrameCode = errors.New("frame type code 0 is reserved for standard messages")
)
