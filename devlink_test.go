package devlink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/go-devlink/config"
	"github.com/devlink/go-devlink/internal/core/channel"
)

// defaultTestConfig 缩短轮询间隔，让测试快速推进
func defaultTestConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.ReceivePollTimeout = 5 * time.Millisecond
	return cfg
}

// ============================================================================
// 回环端到端测试
// ============================================================================

// TestOpen_Loopback 测试打开回环链路
func TestOpen_Loopback(t *testing.T) {
	com, err := Open(LoopbackPortName)
	require.NoError(t, err)
	defer com.Close()

	assert.True(t, com.IsOpen())
	assert.Equal(t, LoopbackPortName, com.PortName())

	_, ok := com.ProtocolVersion()
	assert.False(t, ok, "初始应无协议版本")

	t.Log("✅ 回环打开测试通过")
}

// TestOpen_InvalidConfig 测试非法配置被拒绝
func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(LoopbackPortName, WithMaxPayloadSize(-1))
	assert.Error(t, err)

	t.Log("✅ 非法配置测试通过")
}

// TestCommunicator_StandardRequestOverLoopback 测试标准消息请求经回环完成
func TestCommunicator_StandardRequestOverLoopback(t *testing.T) {
	com, err := Open(LoopbackPortName)
	require.NoError(t, err)
	defer com.Close()

	// 回环把请求原样送回接收侧，身份匹配将其作为响应
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := com.Request(ctx, StandardNodeInfo, 2*time.Second, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)

	info, ok := resp.(*NodeInfo)
	require.True(t, ok, "期望 NodeInfo，得到 %T", resp)
	assert.Equal(t, &NodeInfo{}, info)

	t.Log("✅ 回环标准请求测试通过")
}

// TestCommunicator_ApplicationRoundTripOverLoopback 测试应用消息经回环编解码往返
func TestCommunicator_ApplicationRoundTripOverLoopback(t *testing.T) {
	com, err := Open(LoopbackPortName)
	require.NoError(t, err)
	defer com.Close()

	require.NoError(t, com.SetProtocolVersion(ProtocolVersion{Major: 1, Minor: 1}))

	sent := NewMessage(MTExtendedStatus, Fields{
		"temperature": float64(36.5),
		"uptime":      int64(1234),
		"healthy":     true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := com.Request(ctx, sent, 2*time.Second, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)

	got, ok := resp.(*Message)
	require.True(t, ok)
	assert.Equal(t, sent.Type, got.Type)
	assert.Equal(t, sent.Fields, got.Fields)

	t.Log("✅ 回环应用消息往返测试通过")
}

// TestCommunicator_RequestPredicateOverLoopback 测试细化判定过滤回环响应
func TestCommunicator_RequestPredicateOverLoopback(t *testing.T) {
	com, err := Open(LoopbackPortName)
	require.NoError(t, err)
	defer com.Close()

	require.NoError(t, com.SetProtocolVersion(ProtocolVersion{Major: 1, Minor: 0}))

	// 回环回送 x=5；判定要求 x=6，请求应超时
	ctx := context.Background()
	resp, err := com.Request(ctx, NewMessage(MTGeneralStatus, Fields{"x": int64(5)}),
		200*time.Millisecond, func(m AnyMessage) bool {
			x, _ := m.(*Message).Int("x")
			return x == 6
		})
	require.NoError(t, err, "超时不是错误")
	assert.Nil(t, resp)

	// 未匹配的回送消息进入常规接收队列
	rctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err := com.Receive(rctx)
	require.NoError(t, err)
	x, _ := msg.(*Message).Int("x")
	assert.Equal(t, int64(5), x)

	t.Log("✅ 回环判定过滤测试通过")
}

// TestCommunicator_ReceiveLogOverLoopback 测试诊断文本经注入交付
func TestCommunicator_ReceiveLogOverLoopback(t *testing.T) {
	lb := channel.NewLoopback(defaultTestConfig())
	com, err := Open(LoopbackPortName, WithChannel(lb))
	require.NoError(t, err)
	defer com.Close()

	lb.InjectLogBytes([]byte("fw: init done\n"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	line, err := com.ReceiveLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fw: init done\n", line)

	t.Log("✅ 回环诊断文本测试通过")
}

// TestVersionInfo 测试版本信息格式化
func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)

	// 短提交哈希不越界
	GitCommit = "abc123"
	defer func() { GitCommit = "" }()
	assert.Contains(t, VersionInfo(), "abc123")

	t.Log("✅ 版本信息测试通过")
}

// TestCommunicator_CloseIdempotent 测试关闭幂等
func TestCommunicator_CloseIdempotent(t *testing.T) {
	com, err := Open(LoopbackPortName)
	require.NoError(t, err)

	require.NoError(t, com.Close())
	require.NoError(t, com.Close())
	assert.False(t, com.IsOpen())

	assert.ErrorIs(t, com.Send(StandardNodeInfo), ErrClosed)

	t.Log("✅ 关闭幂等测试通过")
}
