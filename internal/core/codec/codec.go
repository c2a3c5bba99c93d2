// Package codec 提供按协议版本的应用消息编解码实现
//
// 每个协议版本对应一组受支持的消息类型及其帧类型码。
// 编解码器实例无内部状态，构造后可安全地被原子替换。
package codec

import (
	"fmt"

	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
	"github.com/devlink/go-devlink/pkg/types"

	"github.com/devlink/go-devlink/internal/util/logger"
)

// 包级别日志实例
var log = logger.Logger("codec")

// ============================================================================
//                              版本注册表
// ============================================================================

// frameCodes 消息类型到帧类型码的固定映射
//
// 类型码跨版本稳定，版本只决定哪些类型可用。0 保留给标准消息帧。
var frameCodes = map[types.MessageType]types.FrameTypeCode{
	types.MTGeneralStatus:         0x10,
	types.MTDeviceCharacteristics: 0x11,
	types.MTSetpoint:              0x12,
	types.MTCommand:               0x13,
	types.MTExtendedStatus:        0x14,
}

// versionMessageTypes 各协议版本支持的消息类型
var versionMessageTypes = map[types.ProtocolVersion][]types.MessageType{
	{Major: 1, Minor: 0}: {
		types.MTGeneralStatus,
		types.MTDeviceCharacteristics,
		types.MTSetpoint,
		types.MTCommand,
	},
	{Major: 1, Minor: 1}: {
		types.MTGeneralStatus,
		types.MTDeviceCharacteristics,
		types.MTSetpoint,
		types.MTCommand,
		types.MTExtendedStatus,
	},
}

// SupportedVersions 返回受支持的协议版本列表
func SupportedVersions() []types.ProtocolVersion {
	versions := make([]types.ProtocolVersion, 0, len(versionMessageTypes))
	for v := range versionMessageTypes {
		versions = append(versions, v)
	}
	return versions
}

// ============================================================================
//                              Codec 实现
// ============================================================================

// versionedCodec 按版本的编解码器实现
type versionedCodec struct {
	version types.ProtocolVersion

	// encodeTable 消息类型 → 帧类型码
	encodeTable map[types.MessageType]types.FrameTypeCode

	// decodeTable 帧类型码 → 消息类型
	decodeTable map[types.FrameTypeCode]types.MessageType
}

// 确保实现接口
var _ codecif.Codec = (*versionedCodec)(nil)

// New 构造指定协议版本的编解码器
//
// New 实现 codecif.Factory。版本不受支持时返回 codecif.ErrUnsupportedVersion。
func New(v types.ProtocolVersion) (codecif.Codec, error) {
	messageTypes, ok := versionMessageTypes[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", codecif.ErrUnsupportedVersion, v)
	}

	c := &versionedCodec{
		version:     v,
		encodeTable: make(map[types.MessageType]types.FrameTypeCode, len(messageTypes)),
		decodeTable: make(map[types.FrameTypeCode]types.MessageType, len(messageTypes)),
	}
	for _, t := range messageTypes {
		code := frameCodes[t]
		c.encodeTable[t] = code
		c.decodeTable[code] = t
	}

	log.Debug("编解码器已构造", "version", v.String(), "message_types", len(messageTypes))
	return c, nil
}

// Version 返回构造时的协议版本
func (c *versionedCodec) Version() types.ProtocolVersion {
	return c.version
}

// Encode 将应用消息编码为 (帧类型码, 载荷)
func (c *versionedCodec) Encode(msg *types.Message) (types.FrameTypeCode, []byte, error) {
	code, ok := c.encodeTable[msg.Type]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s under %s", ErrUnknownMessageType, msg.Type, c.version)
	}

	payload, err := encodeFields(msg.Fields)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	return code, payload, nil
}

// Decode 将原始应用帧解码为应用消息
func (c *versionedCodec) Decode(frame *types.ReceivedFrame) (*types.Message, error) {
	t, ok := c.decodeTable[frame.TypeCode]
	if !ok {
		return nil, fmt.Errorf("%w: code %d under %s", ErrUnknownFrameType, uint8(frame.TypeCode), c.version)
	}

	fields, err := decodeFields(frame.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	return &types.Message{Type: t, Fields: fields}, nil
}
