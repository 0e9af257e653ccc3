package publicaddr

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("publicaddr",
		fx.Provide(
			ProvideResolver,
			func(r *Resolver) pkgif.PublicAddressResolver { return r },
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideResolver 从统一配置创建解析器
func ProvideResolver(cfg *config.Config) *Resolver {
	return New(cfg.PublicAddress)
}

func registerLifecycle(lc fx.Lifecycle, r *Resolver) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return r.Close()
		},
	})
}
