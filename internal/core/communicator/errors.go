// Package communicator 提供设备链路通信器核心实现
package communicator

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrClosed 通信器已关闭
	ErrClosed = errors.New("communicator closed")

	// ErrNoCodec 未绑定协议版本，无法编解码应用消息
	ErrNoCodec = errors.New("codec not initialized: protocol version not set")

	// ErrInvalidTimeout 超时必须为正
	ErrInvalidTimeout = errors.New("a positive timeout is required")

	// ErrIOWorkerErrorLimit IO 工作协程连续错误超限
	ErrIOWorkerErrorLimit = errors.New("io worker consecutive error limit exceeded")
)
