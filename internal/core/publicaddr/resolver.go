package publicaddr

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var log = logger.Logger("core.publicaddr")

var _ pkgif.PublicAddressResolver = (*Resolver)(nil)

// DefaultTimeout 调用方未指定时的整体超时
const DefaultTimeout = 5 * time.Second

// Resolver 公网地址解析器
type Resolver struct {
	services    []string
	stunServers []string
	client      *http.Client
	clock       clock.Clock

	mu         sync.RWMutex
	cachedIP   string
	cachedTime time.Time
	cacheTTL   time.Duration
}

// Option 解析器选项
type Option func(*Resolver)

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(r *Resolver) { r.clock = c }
}

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// New 创建解析器
func New(cfg config.PublicAddressConfig, opts ...Option) *Resolver {
	r := &Resolver{
		services:    append([]string(nil), cfg.Services...),
		stunServers: append([]string(nil), cfg.STUNServers...),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:       4,
				IdleConnTimeout:    30 * time.Second,
				DisableCompression: true,
			},
		},
		clock:    clock.New(),
		cacheTTL: cfg.CacheTTL.Duration(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetPublicAddress 返回公网地址
func (r *Resolver) GetPublicAddress(ctx context.Context, timeout time.Duration) (string, bool) {
	if ip, ok := r.cached(); ok {
		return ip, true
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ip, err := r.Lookup(ctx)
	if err != nil {
		log.Info("未能获取公网地址", "err", err)
		return "", false
	}
	return ip, true
}

// Lookup 不使用缓存地查询一次，成功后写入缓存
func (r *Resolver) Lookup(ctx context.Context) (string, error) {
	var errs error

	for _, service := range r.services {
		ip, err := r.queryHTTP(ctx, service)
		if err == nil {
			log.Info("通过 HTTP 服务获取到公网地址", "service", service, "ip", ip)
			r.store(ip)
			return ip, nil
		}
		log.Debug("HTTP 地址服务查询失败", "service", service, "err", err)
		errs = multierr.Append(errs, err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	for _, server := range r.stunServers {
		ip, err := r.querySTUN(ctx, server)
		if err == nil {
			log.Info("通过 STUN 获取到公网地址", "server", server, "ip", ip)
			r.store(ip)
			return ip, nil
		}
		log.Debug("STUN 查询失败", "server", server, "err", err)
		errs = multierr.Append(errs, err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("%w: %v", ErrAllSourcesFailed, errs)
}

// ClearCache 清除缓存
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cachedIP = ""
	r.mu.Unlock()
}

// Close 释放空闲连接
func (r *Resolver) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *Resolver) cached() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cachedIP != "" && r.clock.Since(r.cachedTime) < r.cacheTTL {
		return r.cachedIP, true
	}
	return "", false
}

func (r *Resolver) store(ip string) {
	r.mu.Lock()
	r.cachedIP = ip
	r.cachedTime = r.clock.Now()
	r.mu.Unlock()
}
