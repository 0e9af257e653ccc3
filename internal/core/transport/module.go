package transport

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Module 返回 Fx 模块
//
// 具体的 pkgif.Transport 由 quic.Module() 或调用方提供。
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(NewConfigurator),
		fx.Invoke(registerLifecycle),
	)
}

type lifecycleInput struct {
	fx.In
	LC        fx.Lifecycle
	Transport pkgif.Transport
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Transport.Close()
		},
	})
}
