package devlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/devlink/go-devlink/config"
)

// ============================================================================
// fx 模块测试
// ============================================================================

// TestModule_Load 测试 fx 模块装配与生命周期
func TestModule_Load(t *testing.T) {
	var com *Communicator

	app := fxtest.New(t,
		fx.Supply(fx.Annotate(LoopbackPortName, fx.ResultTags(`name:"devlink_port"`))),
		Module(),
		fx.Invoke(func(c *Communicator) { com = c }),
	)

	app.RequireStart()
	require.NotNil(t, com, "容器未注入 *Communicator")
	assert.True(t, com.IsOpen())
	assert.Equal(t, LoopbackPortName, com.PortName())

	// 容器停止时内部模块的生命周期钩子关闭链路
	app.RequireStop()
	assert.False(t, com.IsOpen())

	t.Log("✅ fx 模块装配测试通过")
}

// TestModule_WithConfig 测试可选配置注入
func TestModule_WithConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxPayloadSize = 256

	var com *Communicator
	app := fxtest.New(t,
		fx.Supply(fx.Annotate(LoopbackPortName, fx.ResultTags(`name:"devlink_port"`))),
		fx.Supply(&cfg),
		Module(),
		fx.Invoke(func(c *Communicator) { com = c }),
	)

	app.RequireStart()
	require.NotNil(t, com)

	// 配置生效：超出载荷上限的应用消息被拒绝
	require.NoError(t, com.SetProtocolVersion(ProtocolVersion{Major: 1, Minor: 0}))
	err := com.Send(NewMessage(MTCommand, Fields{"blob": make([]byte, 512)}))
	assert.Error(t, err)

	app.RequireStop()

	t.Log("✅ fx 配置注入测试通过")
}
