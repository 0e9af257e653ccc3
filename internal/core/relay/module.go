package relay

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Params 中继依赖参数
type Params struct {
	fx.In

	Transport pkgif.Transport
	Config    *config.Config `optional:"true"`
}

// Result 中继输出
type Result struct {
	fx.Out

	Relay   *Relay
	Evictor pkgif.Evictor
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("relay",
		fx.Provide(ProvideRelay),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideRelay 创建中继
func ProvideRelay(p Params) Result {
	var opts []Option
	if p.Config != nil {
		opts = append(opts, WithCountdown(p.Config.Admission.Countdown.Duration()))
	}
	r := New(p.Transport, opts...)
	return Result{Relay: r, Evictor: r}
}

type lifecycleInput struct {
	fx.In
	LC    fx.Lifecycle
	Relay *Relay
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Relay.Close()
		},
	})
}
