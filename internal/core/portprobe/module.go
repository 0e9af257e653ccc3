package portprobe

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("portprobe",
		fx.Provide(
			fx.Annotate(New, fx.As(new(pkgif.PortProbe))),
		),
	)
}
