package lanlink

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-lanlink/internal/core/admission"
	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/internal/core/metrics"
	"github.com/dep2p/go-lanlink/internal/core/orchestrator"
	"github.com/dep2p/go-lanlink/internal/core/portprobe"
	"github.com/dep2p/go-lanlink/internal/core/publicaddr"
	"github.com/dep2p/go-lanlink/internal/core/relay"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/core/transport/quic"
	"github.com/dep2p/go-lanlink/internal/discovery"
	"github.com/dep2p/go-lanlink/internal/presenter"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 事件总线 → 传输层 → 端口探测
//  2. 公网地址、局域网发现（按配置）
//  3. 指标 → 中继 → 人数控制 → 编排器
//  4. 展示事件桥
func buildFxApp(opts *options, s *Session) (*fx.App, error) {
	cfg := opts.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg),
		eventbus.Module(),
		transport.Module(),
	}

	// 传输层
	if opts.transport != nil {
		modules = append(modules, fx.Provide(opts.transport))
	} else {
		modules = append(modules, quic.Module())
	}

	// 端口探测
	if opts.probe != nil {
		probe := opts.probe
		modules = append(modules, fx.Provide(func() pkgif.PortProbe { return probe }))
	} else {
		modules = append(modules, portprobe.Module())
	}

	// 公网地址（条件加载）
	if cfg.PublicAddress.AutoDetect {
		modules = append(modules, publicaddr.Module())
	}

	// 局域网发现（未启用时不提供实现）
	modules = append(modules, discovery.Module())

	// 指标
	if opts.registerer != nil {
		reg := opts.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	modules = append(modules, metrics.Module())

	// 展示钩子（未指定时写日志）
	var p pkgif.Presenter = presenter.Log{}
	if opts.presenter != nil {
		p = opts.presenter
	}
	modules = append(modules, fx.Provide(func() pkgif.Presenter { return p }))

	modules = append(modules,
		relay.Module(),
		admission.Module(),
		orchestrator.Module(),
		presenter.Module(),
	)

	// 用户扩展
	if len(opts.userFxOptions) > 0 {
		modules = append(modules, opts.userFxOptions...)
	}

	modules = append(modules,
		fx.Populate(&s.orch, &s.bus),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
