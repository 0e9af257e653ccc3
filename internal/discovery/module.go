// Package discovery 按配置选择局域网主机发现实现
//
// 支持两种后端：
//   - broadcast: UDP 广播请求/响应
//   - mdns: mDNS 服务通告与查询
package discovery

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/discovery/broadcast"
	"github.com/dep2p/go-lanlink/internal/discovery/mdns"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var log = logger.Logger("discovery")

// New 根据发现模式创建实现
func New(cfg config.DiscoveryConfig) (pkgif.HostDiscovery, error) {
	switch cfg.Mode {
	case config.DiscoveryModeBroadcast, "":
		return broadcast.New(cfg), nil
	case config.DiscoveryModeMDNS:
		return mdns.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown discovery mode %q", cfg.Mode)
	}
}

// Module 返回 Fx 模块
//
// 发现未启用时不提供实现，编排器跳过发现步骤。
func Module() fx.Option {
	return fx.Module("discovery",
		fx.Provide(ProvideDiscovery),
		fx.Invoke(registerLifecycle),
	)
}

// Result 发现模块输出
type Result struct {
	fx.Out

	Discovery pkgif.HostDiscovery
}

// ProvideDiscovery 从统一配置创建
func ProvideDiscovery(cfg *config.Config) (Result, error) {
	if !cfg.Discovery.Enable {
		return Result{}, nil
	}
	d, err := New(cfg.Discovery)
	if err != nil {
		return Result{}, err
	}
	log.Debug("局域网发现已启用", "mode", cfg.Discovery.Mode)
	return Result{Discovery: d}, nil
}

type lifecycleInput struct {
	fx.In
	LC        fx.Lifecycle
	Discovery pkgif.HostDiscovery `optional:"true"`
}

func registerLifecycle(input lifecycleInput) {
	if input.Discovery == nil {
		return
	}
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Discovery.Close()
		},
	})
}
