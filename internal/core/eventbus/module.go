package eventbus

import (
	"context"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"go.uber.org/fx"
)

// Result Fx 模块输出
type Result struct {
	fx.Out

	EventBus pkgif.EventBus
	Bus      *Bus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEventBus 提供 EventBus 实例
func ProvideEventBus() Result {
	bus := NewBus()
	return Result{EventBus: bus, Bus: bus}
}

type lifecycleInput struct {
	fx.In
	LC  fx.Lifecycle
	Bus *Bus
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Bus.Close()
		},
	})
}
