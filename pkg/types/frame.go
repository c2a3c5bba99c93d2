package types

import "fmt"

// ============================================================================
//                              帧类型
// ============================================================================

// FrameTypeCode 帧类型码
//
// 每个结构化帧携带一个类型码。类型码 0 保留给标准消息帧，
// 非零类型码的含义由当前绑定的协议版本定义。
type FrameTypeCode uint8

// StandardFrameCode 标准消息帧的类型码
const StandardFrameCode FrameTypeCode = 0

// ReceivedFrame 接收到的原始应用帧
//
// 传输通道只负责帧的完整性校验，应用帧的内容解释交给编解码器。
type ReceivedFrame struct {
	// TypeCode 帧类型码（非 0）
	TypeCode FrameTypeCode

	// Payload 帧载荷
	Payload []byte
}

// String 返回帧的简要描述
func (f *ReceivedFrame) String() string {
	return fmt.Sprintf("ReceivedFrame(type=%d, %d bytes)", uint8(f.TypeCode), len(f.Payload))
}

// ============================================================================
//                              接收结果联合类型
// ============================================================================

// Received 传输通道一次接收的结果
//
// 三种变体：
//   - LogBytes: 帧外的原始诊断字节
//   - StandardMessage: 已解码的标准消息
//   - *ReceivedFrame: 未解码的原始应用帧
//
// 无数据时 Channel.Receive 返回 (nil, nil)。
type Received interface {
	isReceived()
}

// LogBytes 帧外诊断字节
//
// 设备在帧之外输出的任意字节流，通常是人类可读的调试文本。
type LogBytes []byte

func (LogBytes) isReceived()                 {}
func (*ReceivedFrame) isReceived()           {}
func (*NodeInfo) isReceived()                {}
func (*DeviceManagementCommand) isReceived() {}
