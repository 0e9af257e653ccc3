package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-lanlink/internal/util/logger"
)

var log = logger.Logger("discovery.broadcast")

// limiterCacheSize 同时跟踪的请求方数量
const limiterCacheSize = 256

// Responder 发现响应方
//
// 主机运行期间监听发现端口，对每个请求回复自己的会话端口。
type Responder struct {
	discoveryPort int
	ratePerSec    float64

	mu       sync.Mutex
	conn     net.PacketConn
	limiters *lru.Cache[string, *rate.Limiter]
	done     chan struct{}
}

// NewResponder 创建响应方
func NewResponder(discoveryPort int, ratePerSec float64) *Responder {
	limiters, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	return &Responder{
		discoveryPort: discoveryPort,
		ratePerSec:    ratePerSec,
		limiters:      limiters,
	}
}

// Start 绑定发现端口并在后台响应，直到 ctx 结束或 Close
func (r *Responder) Start(ctx context.Context, sessionPort int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		return errors.New("broadcast: responder already running")
	}

	lc := net.ListenConfig{Control: socketControl}
	conn, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", r.discoveryPort))
	if err != nil {
		return fmt.Errorf("bind discovery port %d: %w", r.discoveryPort, err)
	}
	done := make(chan struct{})
	r.conn = conn
	r.done = done

	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	go func() {
		defer stop()
		defer close(done)
		r.serve(conn, sessionPort)
	}()

	log.Info("发现响应方已启动", "discoveryPort", r.discoveryPort, "sessionPort", sessionPort)
	return nil
}

// LocalAddr 返回绑定地址（未启动时为 nil）
func (r *Responder) LocalAddr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Close 停止响应并关闭套接字
func (r *Responder) Close() error {
	r.mu.Lock()
	conn, done := r.conn, r.done
	r.conn = nil
	r.mu.Unlock()
	if conn == nil {
		return nil
	}

	err := conn.Close()
	<-done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (r *Responder) serve(conn net.PacketConn, sessionPort int) {
	resp := EncodeResponse(sessionPort)
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debug("读取发现请求失败", "err", err)
			}
			return
		}
		if !IsRequest(buf[:n]) {
			continue
		}
		if !r.allow(from) {
			log.Debug("发现请求被限速", "from", from.String())
			continue
		}
		if _, err := conn.WriteTo(resp, from); err != nil {
			log.Debug("发送发现响应失败", "to", from.String(), "err", err)
		}
	}
}

// allow 按请求方 IP 限速
func (r *Responder) allow(from net.Addr) bool {
	key := from.String()
	if ua, ok := from.(*net.UDPAddr); ok {
		key = ua.IP.String()
	}

	lim, ok := r.limiters.Get(key)
	if !ok {
		burst := int(r.ratePerSec)
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(r.ratePerSec), burst)
		r.limiters.Add(key, lim)
	}
	return lim.Allow()
}
