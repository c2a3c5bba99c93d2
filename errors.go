package devlink

import (
	"github.com/devlink/go-devlink/internal/core/communicator"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
)

// 公共错误定义
//
// 错误分类：
//   - 配置错误（ErrNoCodec、ErrInvalidTimeout）立即返回给调用方
//   - 致命链路错误（ErrChannelClosed、ErrClosed）使 IsOpen 变为 false
//   - 请求超时不是错误：Request 返回 (nil, nil)
var (
	// ErrClosed 通信器已关闭
	ErrClosed = communicator.ErrClosed

	// ErrNoCodec 未绑定协议版本，无法收发应用消息
	ErrNoCodec = communicator.ErrNoCodec

	// ErrInvalidTimeout 请求超时必须为正
	ErrInvalidTimeout = communicator.ErrInvalidTimeout

	// ErrChannelClosed 传输通道已关闭
	ErrChannelClosed = channelif.ErrChannelClosed

	// ErrUnsupportedVersion 协议版本不受支持
	ErrUnsupportedVersion = codecif.ErrUnsupportedVersion
)
