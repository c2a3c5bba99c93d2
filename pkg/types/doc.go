// Package types 定义 go-devlink 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 devlink 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - message.go  - 应用消息 Message、MessageType、Fields、消息联合类型
//   - standard.go - 标准消息（NodeInfo、DeviceManagementCommand）
//   - frame.go    - 帧类型码、原始应用帧、接收结果联合类型
//   - version.go  - 协议版本 ProtocolVersion
package types
