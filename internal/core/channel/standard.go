// Package channel 提供传输通道实现（串口与回环）
package channel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/devlink/go-devlink/pkg/types"
)

// ============================================================================
//                              标准消息线路编码
// ============================================================================
//
// 标准消息在类型码 0 的帧内传输，载荷布局:
//   [u8 标准类型][类型相关的定长/变长字段]
// 标准消息与协议版本无关，编解码逻辑固定在通道层。

// encodeStandard 将标准消息编码为帧载荷
func encodeStandard(msg types.StandardMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(msg.Standard()))

	switch m := msg.(type) {
	case *types.NodeInfo:
		buf.WriteByte(m.SoftwareVersionMajor)
		buf.WriteByte(m.SoftwareVersionMinor)
		_ = binary.Write(&buf, binary.BigEndian, m.SoftwareVCSCommit)
		buf.WriteByte(m.HardwareVersionMajor)
		buf.WriteByte(m.HardwareVersionMinor)
		buf.WriteByte(byte(m.Mode))
		buf.Write(m.UniqueID[:])
		if err := writeShortString(&buf, m.Name); err != nil {
			return nil, err
		}
		if err := writeShortString(&buf, m.Description); err != nil {
			return nil, err
		}

	case *types.DeviceManagementCommand:
		buf.WriteByte(byte(m.Command))
		buf.WriteByte(m.Status)

	default:
		return nil, fmt.Errorf("%w: unsupported standard message %T", ErrMalformedStandard, msg)
	}
	return buf.Bytes(), nil
}

// decodeStandard 将帧载荷解码为标准消息
func decodeStandard(payload []byte) (types.StandardMessage, error) {
	r := bytes.NewReader(payload)

	t, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: missing standard type", ErrMalformedStandard)
	}

	switch types.StandardType(t) {
	case types.StandardNodeInfo:
		return decodeNodeInfo(r)

	case types.StandardDeviceManagement:
		cmd, err1 := r.ReadByte()
		status, err2 := r.ReadByte()
		if err1 != nil || err2 != nil || r.Len() != 0 {
			return nil, fmt.Errorf("%w: bad device management body", ErrMalformedStandard)
		}
		return &types.DeviceManagementCommand{
			Command: types.ManagementCommand(cmd),
			Status:  status,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown standard type %d", ErrMalformedStandard, t)
	}
}

// decodeNodeInfo 解码 NodeInfo 消息体
func decodeNodeInfo(r *bytes.Reader) (*types.NodeInfo, error) {
	var fixed struct {
		SwMajor, SwMinor byte
		VCSCommit        uint32
		HwMajor, HwMinor byte
		Mode             byte
		UniqueID         [16]byte
	}
	if err := binary.Read(r, binary.BigEndian, &fixed); err != nil {
		return nil, fmt.Errorf("%w: truncated node info", ErrMalformedStandard)
	}

	name, err := readShortString(r)
	if err != nil {
		return nil, err
	}
	desc, err := readShortString(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedStandard, r.Len())
	}

	return &types.NodeInfo{
		SoftwareVersionMajor: fixed.SwMajor,
		SoftwareVersionMinor: fixed.SwMinor,
		SoftwareVCSCommit:    fixed.VCSCommit,
		HardwareVersionMajor: fixed.HwMajor,
		HardwareVersionMinor: fixed.HwMinor,
		Mode:                 types.NodeMode(fixed.Mode),
		UniqueID:             fixed.UniqueID,
		Name:                 name,
		Description:          desc,
	}, nil
}

// writeShortString 写入 u8 长度前缀的字符串
func writeShortString(buf *bytes.Buffer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("%w: string too long (%d)", ErrMalformedStandard, len(s))
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

// readShortString 读取 u8 长度前缀的字符串
func readShortString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("%w: truncated string length", ErrMalformedStandard)
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(r, s); err != nil {
		return "", fmt.Errorf("%w: truncated string", ErrMalformedStandard)
	}
	return string(s), nil
}
