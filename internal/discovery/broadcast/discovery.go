package broadcast

import (
	"context"
	"time"

	"github.com/dep2p/go-lanlink/config"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var _ pkgif.HostDiscovery = (*Discovery)(nil)

// Discovery 组合响应方与请求方
type Discovery struct {
	responder *Responder
	finder    *Finder
}

// New 根据发现配置创建
func New(cfg config.DiscoveryConfig, opts ...FinderOption) *Discovery {
	interval := cfg.RequestInterval.Duration()
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Discovery{
		responder: NewResponder(cfg.Port, cfg.ResponderRate),
		finder:    NewFinder(cfg.Port, interval, opts...),
	}
}

// Advertise 在后台响应发现请求
func (d *Discovery) Advertise(ctx context.Context, port int) error {
	return d.responder.Start(ctx, port)
}

// Find 查找主机
func (d *Discovery) Find(ctx context.Context) (types.HostInfo, error) {
	return d.finder.Find(ctx)
}

// Close 停止响应方
func (d *Discovery) Close() error {
	return d.responder.Close()
}
