package mdns

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/mdns"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/netaddr"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("discovery.mdns")

var _ pkgif.HostDiscovery = (*Discovery)(nil)

// Discovery mDNS 主机发现
type Discovery struct {
	service  string
	domain   string
	instance string

	mu     sync.Mutex
	server *mdns.Server
	stop   func() bool
}

// New 创建 mDNS 发现
func New(cfg config.DiscoveryConfig) *Discovery {
	service := cfg.ServiceTag
	if service == "" {
		service = DefaultServiceTag
	}
	return &Discovery{
		service:  service,
		domain:   DefaultDomain,
		instance: "lanlink-" + uuid.NewString()[:8],
	}
}

// Advertise 注册主机服务，直到 ctx 结束或 Close
func (d *Discovery) Advertise(ctx context.Context, port int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.server != nil {
		return ErrAlreadyAdvertising
	}

	ips := localIPs()
	if len(ips) == 0 {
		return ErrNoValidAddresses
	}

	txt := []string{txtInstance + d.instance, fmt.Sprintf("%s%d", txtPort, port)}
	svc, err := mdns.NewMDNSService(d.instance, d.service, d.domain, "", port, ips, txt)
	if err != nil {
		return fmt.Errorf("创建 mDNS 服务失败: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return fmt.Errorf("创建 mDNS 服务器失败: %w", err)
	}
	d.server = server
	d.stop = context.AfterFunc(ctx, func() { _ = d.Close() })

	log.Info("mDNS 服务已注册", "instance", d.instance, "service", d.service, "port", port)
	return nil
}

// Find 查询主机服务，ctx 结束时返回 ErrNoHostFound
func (d *Discovery) Find(ctx context.Context) (types.HostInfo, error) {
	for {
		round := queryRound
		if deadline, ok := ctx.Deadline(); ok {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return types.HostInfo{}, ErrNoHostFound
			}
			if remaining < round {
				round = remaining
			}
		}

		if host, ok := d.queryOnce(round); ok {
			log.Info("通过 mDNS 发现主机", "addr", host.Addr, "port", host.Port)
			return host, nil
		}

		select {
		case <-ctx.Done():
			return types.HostInfo{}, ErrNoHostFound
		default:
		}
	}
}

// queryOnce 执行一轮查询
func (d *Discovery) queryOnce(timeout time.Duration) (types.HostInfo, bool) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := &mdns.QueryParam{
		Service:             d.service,
		Domain:              d.domain,
		Timeout:             timeout,
		DisableIPv6:         true,
		WantUnicastResponse: true,
		Entries:             entries,
	}

	var (
		found types.HostInfo
		ok    bool
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for entry := range entries {
			if ok {
				continue
			}
			if h, valid := d.hostFromEntry(entry); valid {
				found, ok = h, true
			}
		}
	}()

	if err := mdns.Query(params); err != nil {
		log.Debug("mDNS 查询失败", "err", err)
	}
	close(entries)
	wg.Wait()
	return found, ok
}

// hostFromEntry 将服务条目转换为主机信息，忽略自己的条目
func (d *Discovery) hostFromEntry(entry *mdns.ServiceEntry) (types.HostInfo, bool) {
	if entry == nil || entry.AddrV4 == nil || entry.Port <= 0 {
		return types.HostInfo{}, false
	}
	for _, f := range entry.InfoFields {
		if f == txtInstance+d.instance {
			return types.HostInfo{}, false
		}
	}
	return types.HostInfo{Addr: entry.AddrV4.String(), Port: entry.Port}, true
}

// Close 注销服务
func (d *Discovery) Close() error {
	d.mu.Lock()
	server, stop := d.server, d.stop
	d.server, d.stop = nil, nil
	d.mu.Unlock()

	if stop != nil {
		stop()
	}
	if server == nil {
		return nil
	}
	return server.Shutdown()
}

func localIPs() []net.IP {
	addrs := netaddr.LocalIPv4Addresses()
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips
}
