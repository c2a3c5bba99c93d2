package devlink

import "github.com/devlink/go-devlink/pkg/types"

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// 常用类型从 pkg/types re-export，调用方通常只需导入根包。
type (
	// AnyMessage 链路上的任意消息（标准消息或应用消息）
	AnyMessage = types.AnyMessage

	// Outgoing 可发送项（应用消息、标准消息实例或标准类型标记）
	Outgoing = types.Outgoing

	// Message 应用消息
	Message = types.Message

	// MessageType 应用消息类型
	MessageType = types.MessageType

	// Fields 应用消息字段集合
	Fields = types.Fields

	// StandardMessage 标准消息
	StandardMessage = types.StandardMessage

	// StandardType 标准消息类型标记
	StandardType = types.StandardType

	// NodeInfo 节点信息标准消息
	NodeInfo = types.NodeInfo

	// DeviceManagementCommand 设备管理命令标准消息
	DeviceManagementCommand = types.DeviceManagementCommand

	// ManagementCommand 设备管理命令码
	ManagementCommand = types.ManagementCommand

	// NodeMode 节点运行模式
	NodeMode = types.NodeMode

	// ProtocolVersion 协议版本号
	ProtocolVersion = types.ProtocolVersion
)

// NewMessage 创建应用消息
func NewMessage(t MessageType, fields Fields) *Message {
	return types.NewMessage(t, fields)
}

// ════════════════════════════════════════════════════════════════════════════
//                              常量 re-export
// ════════════════════════════════════════════════════════════════════════════

// 应用消息类型
const (
	MTGeneralStatus         = types.MTGeneralStatus
	MTDeviceCharacteristics = types.MTDeviceCharacteristics
	MTSetpoint              = types.MTSetpoint
	MTCommand               = types.MTCommand
	MTExtendedStatus        = types.MTExtendedStatus
)

// 标准消息类型标记
const (
	StandardNodeInfo         = types.StandardNodeInfo
	StandardDeviceManagement = types.StandardDeviceManagement
)

// 节点运行模式
const (
	ModeNormal     = types.ModeNormal
	ModeBootloader = types.ModeBootloader
)

// 设备管理命令
const (
	CommandRestart          = types.CommandRestart
	CommandPowerOff         = types.CommandPowerOff
	CommandLaunchBootloader = types.CommandLaunchBootloader
	CommandFactoryReset     = types.CommandFactoryReset
)
