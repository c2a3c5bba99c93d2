// Package communicator 提供设备链路通信器核心实现
package communicator

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// Config 配置（可选）
	Config *config.Config `optional:"true"`

	// Channel 传输通道
	Channel channelif.Channel

	// Factory 编解码器工厂
	Factory codecif.Factory

	// Clock 时钟（可选，测试注入）
	Clock clock.Clock `optional:"true"`
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// Communicator 通信器
	Communicator *Communicator
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	comm, err := New(input.Channel, input.Factory, cfg, input.Clock)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Communicator: comm}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("communicator",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC           fx.Lifecycle
	Communicator *Communicator
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			log.Info("通信器停止")
			return input.Communicator.Close()
		},
	})
}
