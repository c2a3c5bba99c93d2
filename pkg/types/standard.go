package types

import "fmt"

// ============================================================================
//                              标准消息类型标记
// ============================================================================

// StandardType 标准消息类型标记
//
// 可直接作为 Outgoing 发送，等价于发送该类型的零值实例。
// 常用于"按类型请求"：发送空的 NodeInfo 请求，等待设备回填。
type StandardType uint8

// 标准消息类型定义
const (
	// StandardNodeInfo 节点信息
	StandardNodeInfo StandardType = iota + 1

	// StandardDeviceManagement 设备管理命令
	StandardDeviceManagement
)

func (StandardType) isOutgoing() {}

// String 返回标准消息类型名称
func (t StandardType) String() string {
	switch t {
	case StandardNodeInfo:
		return "node_info"
	case StandardDeviceManagement:
		return "device_management"
	default:
		return fmt.Sprintf("standard_type(%d)", uint8(t))
	}
}

// NewStandardMessage 创建指定标准类型的零值实例
func NewStandardMessage(t StandardType) (StandardMessage, error) {
	switch t {
	case StandardNodeInfo:
		return &NodeInfo{}, nil
	case StandardDeviceManagement:
		return &DeviceManagementCommand{}, nil
	default:
		return nil, fmt.Errorf("unknown standard message type: %d", uint8(t))
	}
}

// ============================================================================
//                              标准消息
// ============================================================================

// StandardMessage 标准消息
//
// 标准消息是与协议版本无关的控制消息，由传输通道直接编解码。
type StandardMessage interface {
	AnyMessage
	Outgoing
	Received

	// Standard 返回标准消息类型标记
	Standard() StandardType
}

// NodeMode 节点运行模式
type NodeMode uint8

// 节点运行模式定义
const (
	// ModeNormal 正常运行
	ModeNormal NodeMode = iota

	// ModeBootloader 引导程序
	ModeBootloader
)

// String 返回模式名称
func (m NodeMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeBootloader:
		return "bootloader"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// NodeInfo 节点信息标准消息
//
// 零值实例作为请求发送，设备回填后返回同类型消息。
type NodeInfo struct {
	// SoftwareVersionMajor 软件主版本
	SoftwareVersionMajor uint8

	// SoftwareVersionMinor 软件次版本
	SoftwareVersionMinor uint8

	// SoftwareVCSCommit 软件 VCS 提交号
	SoftwareVCSCommit uint32

	// HardwareVersionMajor 硬件主版本
	HardwareVersionMajor uint8

	// HardwareVersionMinor 硬件次版本
	HardwareVersionMinor uint8

	// Mode 当前运行模式
	Mode NodeMode

	// UniqueID 全局唯一标识
	UniqueID [16]byte

	// Name 节点名称
	Name string

	// Description 节点描述
	Description string
}

func (*NodeInfo) isMessage()  {}
func (*NodeInfo) isOutgoing() {}

// Standard 返回标准消息类型标记
func (*NodeInfo) Standard() StandardType { return StandardNodeInfo }

// String 返回消息的简要描述
func (n *NodeInfo) String() string {
	return fmt.Sprintf("NodeInfo(%q, sw %d.%d, hw %d.%d, %s)",
		n.Name,
		n.SoftwareVersionMajor, n.SoftwareVersionMinor,
		n.HardwareVersionMajor, n.HardwareVersionMinor,
		n.Mode)
}

// ManagementCommand 设备管理命令码
type ManagementCommand uint8

// 设备管理命令定义
const (
	// CommandRestart 重启设备
	CommandRestart ManagementCommand = iota + 1

	// CommandPowerOff 关闭设备
	CommandPowerOff

	// CommandLaunchBootloader 进入引导程序
	CommandLaunchBootloader

	// CommandFactoryReset 恢复出厂设置
	CommandFactoryReset
)

// DeviceManagementCommand 设备管理命令标准消息
//
// 设备以相同类型的消息应答，Status 字段表示执行结果。
type DeviceManagementCommand struct {
	// Command 命令码
	Command ManagementCommand

	// Status 执行状态，0 表示成功（应答方向有效）
	Status uint8
}

func (*DeviceManagementCommand) isMessage()  {}
func (*DeviceManagementCommand) isOutgoing() {}

// Standard 返回标准消息类型标记
func (*DeviceManagementCommand) Standard() StandardType { return StandardDeviceManagement }

// String 返回消息的简要描述
func (c *DeviceManagementCommand) String() string {
	return fmt.Sprintf("DeviceManagementCommand(cmd=%d, status=%d)", uint8(c.Command), c.Status)
}
