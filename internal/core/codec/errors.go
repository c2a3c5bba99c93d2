// Package codec 提供按协议版本的应用消息编解码实现
package codec

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrUnknownMessageType 消息类型在当前协议版本下不存在
	ErrUnknownMessageType = errors.New("unknown message type for protocol version")

	// ErrUnknownFrameType 帧类型码在当前协议版本下不存在
	ErrUnknownFrameType = errors.New("unknown frame type code for protocol version")

	// ErrMalformedPayload 帧载荷畸形
	ErrMalformedPayload = errors.New("malformed frame payload")

	// ErrUnsupportedFieldType 字段值类型不受支持
	ErrUnsupportedFieldType = errors.New("unsupported field value type")

	// ErrFieldTooLarge 字段超出编码上限
	ErrFieldTooLarge = errors.New("field exceeds encoding limit")
)
