package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Params 指标依赖参数
type Params struct {
	fx.In

	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
	)
}

// ProvideMetrics 从参数创建指标
func ProvideMetrics(p Params) *Metrics {
	if p.Registerer == nil {
		return New()
	}
	return New(WithRegisterer(p.Registerer))
}
