package quic

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Module 返回 Fx 模块，提供 QUIC 实现的 pkgif.Transport
func Module() fx.Option {
	return fx.Module("transport.quic",
		fx.Provide(
			fx.Annotate(New, fx.As(new(pkgif.Transport))),
		),
	)
}
