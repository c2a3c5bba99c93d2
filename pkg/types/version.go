package types

import "fmt"

// ProtocolVersion 协议版本号 (major, minor)
//
// 应用消息的编码格式由协议版本决定。
// 标准消息与协议版本无关。
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// String 返回 "major.minor" 形式的版本字符串
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
