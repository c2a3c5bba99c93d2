package types

import "fmt"

// ============================================================================
//                              消息联合类型
// ============================================================================

// AnyMessage 链路上的任意消息
//
// 两种变体：
//   - *Message: 应用消息，编码格式由当前绑定的协议版本决定
//   - StandardMessage: 标准消息，与协议版本无关的控制消息
type AnyMessage interface {
	isMessage()
}

// Outgoing 可发送项
//
// 三种变体：
//   - *Message: 应用消息
//   - StandardMessage: 标准消息实例
//   - StandardType: 标准消息类型标记（发送该类型的零值实例）
type Outgoing interface {
	isOutgoing()
}

// ============================================================================
//                              应用消息
// ============================================================================

// MessageType 应用消息类型
type MessageType uint8

// 应用消息类型定义
//
// 各类型在某个协议版本下的帧类型码由对应的编解码器决定。
const (
	// MTGeneralStatus 设备周期状态
	MTGeneralStatus MessageType = iota + 1

	// MTDeviceCharacteristics 设备特性描述
	MTDeviceCharacteristics

	// MTSetpoint 设定值指令
	MTSetpoint

	// MTCommand 通用命令
	MTCommand

	// MTExtendedStatus 扩展状态（v1.1 起支持）
	MTExtendedStatus
)

// String 返回消息类型名称
func (t MessageType) String() string {
	switch t {
	case MTGeneralStatus:
		return "general_status"
	case MTDeviceCharacteristics:
		return "device_characteristics"
	case MTSetpoint:
		return "setpoint"
	case MTCommand:
		return "command"
	case MTExtendedStatus:
		return "extended_status"
	default:
		return fmt.Sprintf("message_type(%d)", uint8(t))
	}
}

// Fields 应用消息的字段集合
//
// 值类型限定为: bool, int64, float64, string, []byte。
// 其他类型在编码时会被拒绝。
type Fields map[string]any

// Message 应用消息
//
// 字段结构由设备固件的协议版本定义，编解码需要先绑定协议版本。
type Message struct {
	// Type 消息类型
	Type MessageType

	// Fields 消息字段
	Fields Fields
}

// NewMessage 创建应用消息
func NewMessage(t MessageType, fields Fields) *Message {
	if fields == nil {
		fields = make(Fields)
	}
	return &Message{Type: t, Fields: fields}
}

func (*Message) isMessage()  {}
func (*Message) isOutgoing() {}

// String 返回消息的简要描述
func (m *Message) String() string {
	return fmt.Sprintf("Message(%s, %d fields)", m.Type, len(m.Fields))
}

// Int 读取 int64 字段
func (m *Message) Int(name string) (int64, bool) {
	v, ok := m.Fields[name].(int64)
	return v, ok
}

// Float 读取 float64 字段
func (m *Message) Float(name string) (float64, bool) {
	v, ok := m.Fields[name].(float64)
	return v, ok
}

// Str 读取 string 字段
func (m *Message) Str(name string) (string, bool) {
	v, ok := m.Fields[name].(string)
	return v, ok
}

// Bool 读取 bool 字段
func (m *Message) Bool(name string) (bool, bool) {
	v, ok := m.Fields[name].(bool)
	return v, ok
}

// Bytes 读取 []byte 字段
func (m *Message) Bytes(name string) ([]byte, bool) {
	v, ok := m.Fields[name].([]byte)
	return v, ok
}
