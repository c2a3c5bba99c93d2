package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
	"github.com/devlink/go-devlink/pkg/types"
)

var (
	v10 = types.ProtocolVersion{Major: 1, Minor: 0}
	v11 = types.ProtocolVersion{Major: 1, Minor: 1}
)

// TestNew 测试编解码器构造
func TestNew(t *testing.T) {
	t.Run("SupportedVersions", func(t *testing.T) {
		for _, v := range SupportedVersions() {
			c, err := New(v)
			require.NoError(t, err)
			assert.Equal(t, v, c.Version())
		}
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		_, err := New(types.ProtocolVersion{Major: 9, Minor: 9})
		assert.ErrorIs(t, err, codecif.ErrUnsupportedVersion)
	})

	t.Log("✅ New 测试通过")
}

// TestCodec_RoundTrip 测试应用消息编解码往返
func TestCodec_RoundTrip(t *testing.T) {
	c, err := New(v10)
	require.NoError(t, err)

	msg := types.NewMessage(types.MTGeneralStatus, types.Fields{
		"voltage":     float64(12.6),
		"current":     float64(-0.25),
		"cycle_count": int64(42),
		"armed":       true,
		"status_text": "ok",
		"raw":         []byte{0x01, 0x02, 0x03},
	})

	code, payload, err := c.Encode(msg)
	require.NoError(t, err)
	assert.NotEqual(t, types.StandardFrameCode, code)

	decoded, err := c.Decode(&types.ReceivedFrame{TypeCode: code, Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Fields, decoded.Fields)

	t.Log("✅ Codec 编解码往返测试通过")
}

// TestCodec_AllMessageTypes 测试各版本下所有消息类型的往返
func TestCodec_AllMessageTypes(t *testing.T) {
	for v, messageTypes := range versionMessageTypes {
		c, err := New(v)
		require.NoError(t, err)

		for _, mt := range messageTypes {
			msg := types.NewMessage(mt, types.Fields{"x": int64(5)})

			code, payload, err := c.Encode(msg)
			require.NoError(t, err, "version %s type %s", v, mt)

			decoded, err := c.Decode(&types.ReceivedFrame{TypeCode: code, Payload: payload})
			require.NoError(t, err)
			assert.Equal(t, mt, decoded.Type)
		}
	}

	t.Log("✅ 全消息类型往返测试通过")
}

// TestCodec_VersionGating 测试版本对消息类型的门控
func TestCodec_VersionGating(t *testing.T) {
	c10, err := New(v10)
	require.NoError(t, err)
	c11, err := New(v11)
	require.NoError(t, err)

	msg := types.NewMessage(types.MTExtendedStatus, types.Fields{"x": int64(1)})

	t.Run("EncodeRejectedUnderOldVersion", func(t *testing.T) {
		_, _, err := c10.Encode(msg)
		assert.ErrorIs(t, err, ErrUnknownMessageType)
	})

	t.Run("EncodeAcceptedUnderNewVersion", func(t *testing.T) {
		code, payload, err := c11.Encode(msg)
		require.NoError(t, err)

		// 新版本编码的帧在旧版本下无法解释
		_, err = c10.Decode(&types.ReceivedFrame{TypeCode: code, Payload: payload})
		assert.ErrorIs(t, err, ErrUnknownFrameType)
	})

	t.Log("✅ 版本门控测试通过")
}

// TestCodec_DecodeMalformed 测试畸形载荷解码
func TestCodec_DecodeMalformed(t *testing.T) {
	c, err := New(v10)
	require.NoError(t, err)

	code, good, err := c.Encode(types.NewMessage(types.MTSetpoint, types.Fields{"value": float64(1.5)}))
	require.NoError(t, err)

	cases := map[string][]byte{
		"Empty":          {},
		"TruncatedCount": {0x00},
		"Truncated":      good[:len(good)-1],
		"TrailingBytes":  append(append([]byte{}, good...), 0xFF),
		"BogusValueTag":  {0x00, 0x01, 0x01, 'x', 0xEE},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(&types.ReceivedFrame{TypeCode: code, Payload: payload})
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}

	t.Log("✅ 畸形载荷测试通过")
}

// TestCodec_EncodeRejects 测试编码侧的字段校验
func TestCodec_EncodeRejects(t *testing.T) {
	c, err := New(v10)
	require.NoError(t, err)

	t.Run("UnsupportedFieldType", func(t *testing.T) {
		msg := types.NewMessage(types.MTCommand, types.Fields{"bad": uint32(1)})
		_, _, err := c.Encode(msg)
		assert.ErrorIs(t, err, ErrUnsupportedFieldType)
	})

	t.Run("EmptyFieldName", func(t *testing.T) {
		msg := types.NewMessage(types.MTCommand, types.Fields{"": int64(1)})
		_, _, err := c.Encode(msg)
		assert.ErrorIs(t, err, ErrFieldTooLarge)
	})

	t.Run("OversizeValue", func(t *testing.T) {
		msg := types.NewMessage(types.MTCommand, types.Fields{
			"blob": make([]byte, MaxFieldValueLength+1),
		})
		_, _, err := c.Encode(msg)
		assert.ErrorIs(t, err, ErrFieldTooLarge)
	})

	t.Log("✅ 编码校验测试通过")
}

// TestCodec_DuplicateField 测试重复字段名被拒绝
func TestCodec_DuplicateField(t *testing.T) {
	c, err := New(v10)
	require.NoError(t, err)

	// 手工构造: 2 个字段，同名 "x"，各为 bool
	payload := []byte{
		0x00, 0x02,
		0x01, 'x', 0x01, 0x01,
		0x01, 'x', 0x01, 0x00,
	}
	_, err = c.Decode(&types.ReceivedFrame{TypeCode: 0x10, Payload: payload})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	t.Log("✅ 重复字段测试通过")
}
