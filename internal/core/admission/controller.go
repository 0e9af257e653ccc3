package admission

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/metrics"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.admission")

// subscriptionBuffer 连接事件订阅缓冲
const subscriptionBuffer = 64

// ErrAlreadyStarted 控制器已启动
var ErrAlreadyStarted = errors.New("admission: already started")

// Controller 人数控制器
type Controller struct {
	cfg       config.AdmissionConfig
	maxPeers  int
	bus       pkgif.EventBus
	transport pkgif.Transport

	presenter pkgif.Presenter
	evictor   pkgif.Evictor
	clock     clock.Clock
	metrics   *metrics.Metrics

	mu      sync.Mutex
	evicted map[types.PeerID]struct{}
	timers  map[types.PeerID]*clock.Timer
	subs    []pkgif.Subscription
	done    chan struct{}
}

// Option 控制器选项
type Option func(*Controller)

// WithPresenter 指定展示钩子
func WithPresenter(p pkgif.Presenter) Option {
	return func(c *Controller) {
		c.presenter = p
	}
}

// WithEvictor 指定驱逐钩子
func WithEvictor(e pkgif.Evictor) Option {
	return func(c *Controller) {
		c.evictor = e
	}
}

// WithClock 指定时钟
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithMetrics 指定指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New 创建人数控制器
func New(cfg config.AdmissionConfig, maxPeers int, bus pkgif.EventBus, t pkgif.Transport, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		maxPeers:  maxPeers,
		bus:       bus,
		transport: t,
		clock:     clock.New(),
		evicted:   make(map[types.PeerID]struct{}),
		timers:    make(map[types.PeerID]*clock.Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxPeers 返回人数上限
func (c *Controller) MaxPeers() int {
	return c.maxPeers
}

// Start 订阅连接事件
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return ErrAlreadyStarted
	}

	connected, err := c.bus.Subscribe(new(types.EvtPeerConnected), pkgif.BufSize(subscriptionBuffer))
	if err != nil {
		return err
	}
	disconnected, err := c.bus.Subscribe(new(types.EvtPeerDisconnected), pkgif.BufSize(subscriptionBuffer))
	if err != nil {
		_ = connected.Close()
		return err
	}

	c.subs = []pkgif.Subscription{connected, disconnected}
	c.done = make(chan struct{})
	go c.loop(connected, disconnected, c.done)

	log.Debug("人数控制已启动", "maxPeers", c.maxPeers)
	return nil
}

// Stop 取消订阅并撤销待执行的断开
func (c *Controller) Stop() {
	c.mu.Lock()
	subs, done := c.subs, c.done
	c.subs, c.done = nil, nil
	c.mu.Unlock()

	if done == nil {
		return
	}
	for _, s := range subs {
		_ = s.Close()
	}
	<-done

	c.mu.Lock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.evicted = make(map[types.PeerID]struct{})
	c.mu.Unlock()
	log.Debug("人数控制已停止")
}

func (c *Controller) loop(connected, disconnected pkgif.Subscription, done chan struct{}) {
	defer close(done)
	connCh, discCh := connected.Out(), disconnected.Out()
	for connCh != nil || discCh != nil {
		select {
		case e, ok := <-connCh:
			if !ok {
				connCh = nil
				continue
			}
			if evt, ok := e.(types.EvtPeerConnected); ok {
				c.onConnected(evt)
			}
		case e, ok := <-discCh:
			if !ok {
				discCh = nil
				continue
			}
			if evt, ok := e.(types.EvtPeerDisconnected); ok {
				c.onDisconnected(evt)
			}
		}
	}
}

func (c *Controller) onConnected(evt types.EvtPeerConnected) {
	c.metrics.SetPeers(evt.NumPeers)

	d := Decide(evt.Peer, evt.NumPeers, c.maxPeers)
	if !d.Overflow() {
		log.Debug("对端已加入", "peer", evt.Peer.ID.ShortString(), "peers", evt.NumPeers, "max", c.maxPeers)
		return
	}

	c.mu.Lock()
	if _, ok := c.evicted[evt.Peer.ID]; ok {
		c.mu.Unlock()
		return
	}
	c.evicted[evt.Peer.ID] = struct{}{}
	c.mu.Unlock()

	log.Warn("会话已满，驱逐对端",
		"peer", evt.Peer.ID.ShortString(),
		"local", evt.Peer.IsLocal,
		"peers", evt.NumPeers,
		"max", c.maxPeers)

	c.evict(d)
}

// evict 执行驱逐动作
func (c *Controller) evict(d Decision) {
	grace := c.cfg.GraceDelay.Duration()
	id := d.Peer.ID

	if d.Action == ActionEvictLocal {
		if c.presenter != nil {
			c.presenter.ShowCountdown(c.cfg.Message, c.cfg.Countdown.Duration())
		}
		c.schedule(id, grace)
		c.metrics.ObserveEviction(metrics.EvictionLocal)
		return
	}

	if c.evictor != nil {
		err := c.evictor.NotifyAndDisconnect(id, c.cfg.Message, grace)
		if err == nil {
			c.metrics.ObserveEviction(metrics.EvictionNotified)
			return
		}
		log.Warn("驱逐钩子失败，立即断开", "peer", id.ShortString(), "error", err)
	}
	c.disconnect(id)
	c.metrics.ObserveEviction(metrics.EvictionImmediate)
}

// schedule 在 grace 之后断开
func (c *Controller) schedule(id types.PeerID, grace time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.timers[id]; ok {
		return
	}
	c.timers[id] = c.clock.AfterFunc(grace, func() {
		c.mu.Lock()
		_, pending := c.timers[id]
		delete(c.timers, id)
		c.mu.Unlock()
		if pending {
			c.disconnect(id)
		}
	})
}

func (c *Controller) disconnect(id types.PeerID) {
	err := c.transport.Disconnect(id, types.DisconnectReasonSessionFull)
	switch {
	case err == nil:
	case errors.Is(err, transport.ErrPeerNotFound):
		log.Debug("对端已离开", "peer", id.ShortString())
	default:
		log.Warn("断开对端失败", "peer", id.ShortString(), "error", err)
	}
}

func (c *Controller) onDisconnected(evt types.EvtPeerDisconnected) {
	c.metrics.SetPeers(evt.NumPeers)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[evt.PeerID]; ok {
		t.Stop()
		delete(c.timers, evt.PeerID)
	}
	delete(c.evicted, evt.PeerID)
}

// PendingEvictions 返回本地待断开的数量
func (c *Controller) PendingEvictions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
