package relay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.relay")

var _ pkgif.Evictor = (*Relay)(nil)

// DefaultCountdown 客户端显示的默认倒计时
const DefaultCountdown = 5 * time.Second

// Relay 消息中继与延迟断开
type Relay struct {
	transport pkgif.Transport
	clock     clock.Clock
	countdown time.Duration

	mu      sync.Mutex
	pending map[types.PeerID]*clock.Timer
	closed  bool
}

// Option 中继选项
type Option func(*Relay)

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(r *Relay) {
		r.clock = c
	}
}

// WithCountdown 指定下发给客户端的倒计时
func WithCountdown(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.countdown = d
		}
	}
}

// New 创建中继
func New(t pkgif.Transport, opts ...Option) *Relay {
	r := &Relay{
		transport: t,
		clock:     clock.New(),
		countdown: DefaultCountdown,
		pending:   make(map[types.PeerID]*clock.Timer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NotifyAndDisconnect 发送提示，grace 之后断开
//
// 对同一对端重复调用不会安排第二次断开。
func (r *Relay) NotifyAndDisconnect(peer types.PeerID, message string, grace time.Duration) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if _, ok := r.pending[peer]; ok {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	notice := types.Notice{Message: message, Countdown: r.countdown}
	if err := r.transport.Notify(peer, notice); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotifyFailed, peer.ShortString(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if _, ok := r.pending[peer]; ok {
		return nil
	}
	r.pending[peer] = r.clock.AfterFunc(grace, func() { r.fire(peer) })

	log.Info("已通知对端会话已满",
		"peer", peer.ShortString(),
		"grace", grace,
		"countdown", r.countdown)
	return nil
}

// fire 宽限期结束，断开对端
func (r *Relay) fire(peer types.PeerID) {
	r.mu.Lock()
	if _, ok := r.pending[peer]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.pending, peer)
	r.mu.Unlock()

	err := r.transport.Disconnect(peer, types.DisconnectReasonSessionFull)
	switch {
	case err == nil:
		log.Info("已断开溢出对端", "peer", peer.ShortString())
	case errors.Is(err, transport.ErrPeerNotFound):
		log.Debug("对端已离开，跳过断开", "peer", peer.ShortString())
	default:
		log.Warn("断开溢出对端失败", "peer", peer.ShortString(), "error", err)
	}
}

// Cancel 取消对端待执行的断开
func (r *Relay) Cancel(peer types.PeerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.pending[peer]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.pending, peer)
	return true
}

// Pending 返回待断开的对端数量
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close 取消全部待执行的断开
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for id, t := range r.pending {
		t.Stop()
		delete(r.pending, id)
	}
	return nil
}
