package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/go-devlink/pkg/types"
)

const testMaxPayload = 1024

// feedAll 一次性喂入数据并推进一次空闲检查
func feedAll(f *framer, data []byte, now time.Time) []types.Received {
	out := f.Feed(data, now)
	return append(out, f.Tick(now)...)
}

// TestFraming_RoundTrip 测试帧编码与解帧往返
func TestFraming_RoundTrip(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	payload := []byte{0x01, 0x02, 0x03, 0x04}
	wire, err := encodeFrame(0x10, payload, testMaxPayload)
	require.NoError(t, err)

	out := feedAll(f, wire, now)
	require.Len(t, out, 1)

	frame, ok := out[0].(*types.ReceivedFrame)
	require.True(t, ok, "期望应用帧，得到 %T", out[0])
	assert.Equal(t, types.FrameTypeCode(0x10), frame.TypeCode)
	assert.Equal(t, payload, frame.Payload)

	t.Log("✅ 帧往返测试通过")
}

// TestFraming_Escaping 测试定界符与转义字节的转义
func TestFraming_Escaping(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	// 载荷包含需要转义的两个特殊字节
	payload := []byte{FrameDelimiter, EscapeByte, 0x00, FrameDelimiter}
	wire, err := encodeFrame(0x22, payload, testMaxPayload)
	require.NoError(t, err)

	// 线路上帧内容中不得出现裸定界符
	assert.Equal(t, FrameDelimiter, wire[0])
	assert.Equal(t, FrameDelimiter, wire[len(wire)-1])
	for _, b := range wire[1 : len(wire)-1] {
		assert.NotEqual(t, FrameDelimiter, b, "帧内容泄漏裸定界符")
	}

	out := feedAll(f, wire, now)
	require.Len(t, out, 1)

	frame, ok := out[0].(*types.ReceivedFrame)
	require.True(t, ok)
	assert.Equal(t, payload, frame.Payload)

	t.Log("✅ 转义测试通过")
}

// TestFraming_ByteAtATime 测试逐字节喂入
func TestFraming_ByteAtATime(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	payload := []byte("hello device")
	wire, err := encodeFrame(0x30, payload, testMaxPayload)
	require.NoError(t, err)

	var out []types.Received
	for _, b := range wire {
		out = append(out, f.Feed([]byte{b}, now)...)
	}
	require.Len(t, out, 1)

	frame, ok := out[0].(*types.ReceivedFrame)
	require.True(t, ok)
	assert.Equal(t, payload, frame.Payload)

	t.Log("✅ 逐字节解帧测试通过")
}

// TestFraming_CRCMismatch 测试 CRC 校验失败的帧被丢弃
func TestFraming_CRCMismatch(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	wire, err := encodeFrame(0x10, []byte{0x01, 0x02}, testMaxPayload)
	require.NoError(t, err)

	// 破坏载荷中的一个字节（帧内第 2 字节是载荷首字节，非特殊字节）
	wire[2] ^= 0x01

	out := feedAll(f, wire, now)
	assert.Empty(t, out, "CRC 失败的帧应被静默丢弃")

	// 后续的完好帧不受影响
	good, err := encodeFrame(0x10, []byte{0x05}, testMaxPayload)
	require.NoError(t, err)
	out = feedAll(f, good, now)
	require.Len(t, out, 1)

	t.Log("✅ CRC 校验测试通过")
}

// TestFraming_LogBytes 测试帧外字节按诊断文本提取
func TestFraming_LogBytes(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	wire, err := encodeFrame(0x10, []byte{0xAA}, testMaxPayload)
	require.NoError(t, err)

	data := append([]byte("boot: ok\r\n"), wire...)
	data = append(data, []byte("panic?")...)

	out := feedAll(f, data, now)
	require.Len(t, out, 3)

	log1, ok := out[0].(types.LogBytes)
	require.True(t, ok)
	assert.Equal(t, "boot: ok\r\n", string(log1))

	_, ok = out[1].(*types.ReceivedFrame)
	require.True(t, ok)

	log2, ok := out[2].(types.LogBytes)
	require.True(t, ok)
	assert.Equal(t, "panic?", string(log2))

	t.Log("✅ 诊断文本提取测试通过")
}

// TestFraming_EmptyFrame 测试相邻定界符之间的空帧被忽略
func TestFraming_EmptyFrame(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, time.Second)

	out := feedAll(f, []byte{FrameDelimiter, FrameDelimiter, FrameDelimiter}, now)
	assert.Empty(t, out)

	t.Log("✅ 空帧测试通过")
}

// TestFraming_FrameTimeout 测试未完结的帧超时后降级为诊断文本
func TestFraming_FrameTimeout(t *testing.T) {
	now := time.Now()
	f := newFramer(testMaxPayload, 100*time.Millisecond)

	// 只有帧头，帧永不完结
	partial := []byte{FrameDelimiter, 'a', 'b', 'c'}
	out := f.Feed(partial, now)
	assert.Empty(t, out)

	// 超时前：仍在等帧
	out = f.Tick(now.Add(50 * time.Millisecond))
	assert.Empty(t, out)

	// 超时后：缓冲字节降级为诊断文本
	out = f.Tick(now.Add(200 * time.Millisecond))
	require.Len(t, out, 1)
	logBytes, ok := out[0].(types.LogBytes)
	require.True(t, ok)
	assert.Equal(t, "abc", string(logBytes))

	t.Log("✅ 帧超时测试通过")
}

// TestFraming_OversizeFrame 测试超长帧被丢弃
func TestFraming_OversizeFrame(t *testing.T) {
	now := time.Now()
	f := newFramer(8, time.Second)

	data := []byte{FrameDelimiter}
	for i := 0; i < 64; i++ {
		data = append(data, 0x01)
	}
	out := f.Feed(data, now)
	assert.Empty(t, out)
	assert.False(t, f.inFrame, "超长帧后状态机应复位")

	t.Log("✅ 超长帧测试通过")
}

// TestEncodeFrame_PayloadTooLarge 测试发送侧载荷上限
func TestEncodeFrame_PayloadTooLarge(t *testing.T) {
	_, err := encodeFrame(0x10, make([]byte, testMaxPayload+1), testMaxPayload)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	t.Log("✅ 载荷上限测试通过")
}
