package admission

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/metrics"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Params 控制器依赖参数
type Params struct {
	fx.In

	Config    *config.Config
	Bus       pkgif.EventBus
	Transport pkgif.Transport
	Presenter pkgif.Presenter  `optional:"true"`
	Evictor   pkgif.Evictor    `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
}

// Module 返回 Fx 模块
//
// 控制器由编排器在主机路径上启动，这里只负责创建与停止。
func Module() fx.Option {
	return fx.Module("admission",
		fx.Provide(ProvideController),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideController 创建人数控制器
func ProvideController(p Params) *Controller {
	return New(p.Config.Admission, p.Config.Session.MaxPeers, p.Bus, p.Transport,
		WithPresenter(p.Presenter),
		WithEvictor(p.Evictor),
		WithMetrics(p.Metrics),
	)
}

type lifecycleInput struct {
	fx.In
	LC         fx.Lifecycle
	Controller *Controller
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			input.Controller.Stop()
			return nil
		},
	})
}
