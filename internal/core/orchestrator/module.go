package orchestrator

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/admission"
	"github.com/dep2p/go-lanlink/internal/core/metrics"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Params 编排器依赖参数
type Params struct {
	fx.In

	Config    *config.Config
	Transport pkgif.Transport
	Bus       pkgif.EventBus

	Probe     pkgif.PortProbe             `optional:"true"`
	Discovery pkgif.HostDiscovery         `optional:"true"`
	Resolver  pkgif.PublicAddressResolver `optional:"true"`
	Presenter pkgif.Presenter             `optional:"true"`
	Admission *admission.Controller       `optional:"true"`
	Metrics   *metrics.Metrics            `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("orchestrator",
		fx.Provide(ProvideOrchestrator),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideOrchestrator 从参数创建编排器
func ProvideOrchestrator(p Params) (*Orchestrator, error) {
	return New(p.Config, p.Transport, p.Bus,
		WithPortProbe(p.Probe),
		WithDiscovery(p.Discovery),
		WithPublicAddressResolver(p.Resolver),
		WithPresenter(p.Presenter),
		WithAdmission(p.Admission),
		WithMetrics(p.Metrics),
	)
}

type lifecycleInput struct {
	fx.In
	LC           fx.Lifecycle
	Orchestrator *Orchestrator
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Orchestrator.Close()
		},
	})
}
