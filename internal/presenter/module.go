package presenter

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Params 事件桥依赖参数
type Params struct {
	fx.In

	Bus       pkgif.EventBus
	Presenter pkgif.Presenter `optional:"true"`
}

// Module 返回 Fx 模块
//
// 未提供展示钩子时使用 Log。
func Module() fx.Option {
	return fx.Module("presenter",
		fx.Provide(ProvideBridge),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideBridge 创建事件桥
func ProvideBridge(p Params) *Bridge {
	presenter := p.Presenter
	if presenter == nil {
		presenter = Log{}
	}
	return NewBridge(p.Bus, presenter)
}

func registerLifecycle(lc fx.Lifecycle, b *Bridge) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return b.Start()
		},
		OnStop: func(_ context.Context) error {
			b.Stop()
			return nil
		},
	})
}
