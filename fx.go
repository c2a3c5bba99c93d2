package devlink

import (
	"go.uber.org/fx"

	"github.com/devlink/go-devlink/config"
	"github.com/devlink/go-devlink/internal/core/channel"
	"github.com/devlink/go-devlink/internal/core/codec"
	"github.com/devlink/go-devlink/internal/core/communicator"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"
	codecif "github.com/devlink/go-devlink/pkg/interfaces/codec"
)

// ════════════════════════════════════════════════════════════════════════════
//                              fx 集成
// ════════════════════════════════════════════════════════════════════════════

// Params fx 模块参数
type Params struct {
	fx.In

	// PortName 链路端口名
	PortName string `name:"devlink_port"`

	// Config 配置（可选）
	Config *config.Config `optional:"true"`
}

// Module 返回 fx 模块配置
//
// 聚合内部通信器模块，向应用容器提供 *Communicator；
// 生命周期（容器停止时关闭链路）与可选的时钟注入由内部模块承担。
//
// 使用示例：
//
//	app := fx.New(
//	    fx.Supply(fx.Annotate("/dev/ttyACM0", fx.ResultTags(`name:"devlink_port"`))),
//	    devlink.Module(),
//	    fx.Invoke(func(com *devlink.Communicator) { ... }),
//	)
func Module() fx.Option {
	return fx.Module("devlink",
		fx.Provide(provideChannel),
		fx.Provide(provideFactory),
		communicator.Module(),
		fx.Provide(provideFacade),
	)
}

// provideChannel 按端口名提供传输通道
func provideChannel(p Params) (channelif.Channel, error) {
	cfg := config.DefaultConfig()
	if p.Config != nil {
		cfg = *p.Config
	}
	return channel.Open(p.PortName, cfg)
}

// provideFactory 提供内置编解码器工厂
func provideFactory() codecif.Factory {
	return codec.New
}

// provideFacade 把内部通信器包装为根包门面
func provideFacade(inner *communicator.Communicator) *Communicator {
	return &Communicator{inner: inner}
}
