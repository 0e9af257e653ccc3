package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// Finder 发现请求方
type Finder struct {
	discoveryPort int
	interval      time.Duration
	targets       []*net.UDPAddr
}

// FinderOption Finder 选项
type FinderOption func(*Finder)

// WithTargets 指定请求发送目标（默认为受限广播与各接口的定向广播）
func WithTargets(targets ...*net.UDPAddr) FinderOption {
	return func(f *Finder) { f.targets = targets }
}

// NewFinder 创建请求方
func NewFinder(discoveryPort int, interval time.Duration, opts ...FinderOption) *Finder {
	f := &Finder{discoveryPort: discoveryPort, interval: interval}
	for _, opt := range opts {
		opt(f)
	}
	if len(f.targets) == 0 {
		f.targets = broadcastTargets(discoveryPort)
	}
	return f
}

// Find 周期性发送请求，返回第一个有效响应；ctx 结束时返回 ErrNoHostFound
func (f *Finder) Find(ctx context.Context) (types.HostInfo, error) {
	lc := net.ListenConfig{Control: socketControl}
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return types.HostInfo{}, fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(gctx, func() { _ = conn.Close() })
	defer stop()

	var found types.HostInfo
	g, gctx := errgroup.WithContext(gctx)

	g.Go(func() error {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		req := EncodeRequest()
		for {
			for _, t := range f.targets {
				if _, err := conn.WriteTo(req, t); err != nil {
					log.Debug("发送发现请求失败", "target", t.String(), "err", err)
				}
			}
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		buf := make([]byte, maxDatagram)
		for {
			n, from, err := conn.ReadFrom(buf)
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}
			port, err := ParseResponse(buf[:n])
			if err != nil {
				continue
			}
			ua, ok := from.(*net.UDPAddr)
			if !ok {
				continue
			}
			found = types.HostInfo{Addr: ua.IP.String(), Port: port}
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		return types.HostInfo{}, err
	}
	if found.Port == 0 {
		return types.HostInfo{}, ErrNoHostFound
	}
	log.Info("发现局域网主机", "addr", found.Addr, "port", found.Port)
	return found, nil
}

// broadcastTargets 受限广播加上每个 IPv4 接口的定向广播地址
func broadcastTargets(port int) []*net.UDPAddr {
	targets := []*net.UDPAddr{{IP: net.IPv4bcast, Port: port}}

	ifaces, err := net.Interfaces()
	if err != nil {
		return targets
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipnet.IP.To4()
			if ip == nil || ip.IsLoopback() || len(ipnet.Mask) != net.IPv4len {
				continue
			}
			bcast := make(net.IP, net.IPv4len)
			for i := range ip {
				bcast[i] = ip[i] | ^ipnet.Mask[i]
			}
			targets = append(targets, &net.UDPAddr{IP: bcast, Port: port})
		}
	}
	return targets
}
