// Package codec 定义应用消息编解码器接口
//
// 编解码器由协议版本构造，负责应用消息与 (帧类型码, 载荷) 之间的转换。
// 标准消息与编解码器无关，由传输通道直接处理。
package codec

import (
	"errors"

	"github.com/devlink/go-devlink/pkg/types"
)

// ErrUnsupportedVersion 协议版本不受支持
var ErrUnsupportedVersion = errors.New("unsupported protocol version")

// ============================================================================
//                              Codec 接口
// ============================================================================

// Codec 应用消息编解码器
//
// 实现无需加锁：通信器保证编解码器绑定的原子替换，
// 单个实例的 Encode/Decode 调用不会与替换交错。
type Codec interface {
	// Version 返回构造时的协议版本
	Version() types.ProtocolVersion

	// Encode 将应用消息编码为 (帧类型码, 载荷)
	Encode(msg *types.Message) (types.FrameTypeCode, []byte, error)

	// Decode 将原始应用帧解码为应用消息
	//
	// 输入畸形时返回可区分的错误，不会 panic。
	Decode(frame *types.ReceivedFrame) (*types.Message, error)
}

// Factory 编解码器工厂
//
// 版本不受支持时返回 ErrUnsupportedVersion。
type Factory func(v types.ProtocolVersion) (Codec, error)
