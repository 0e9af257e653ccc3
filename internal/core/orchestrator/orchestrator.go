package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/admission"
	"github.com/dep2p/go-lanlink/internal/core/metrics"
	"github.com/dep2p/go-lanlink/internal/core/netaddr"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.orchestrator")

// Orchestrator 连接编排器
//
// 每个会话一个编排器；同一时间只运行一个序列。
type Orchestrator struct {
	cfg          *config.Config
	transport    pkgif.Transport
	configurator *transport.Configurator

	probe      pkgif.PortProbe
	discovery  pkgif.HostDiscovery
	resolver   pkgif.PublicAddressResolver
	presenter  pkgif.Presenter
	admission  *admission.Controller
	clock      clock.Clock
	metrics    *metrics.Metrics
	localAddrs func() []string

	stateEmitter  pkgif.Emitter
	publicEmitter pkgif.Emitter

	// ctx 编排器生命周期，客户端连接与后台任务挂在其下
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	info      types.SessionInfo
	seqCancel context.CancelFunc
	seqDone   chan struct{}
	bgCancel  context.CancelFunc
	bg        sync.WaitGroup
	closed    bool
}

// Option 编排器选项
type Option func(*Orchestrator)

// WithPortProbe 指定端口探测
func WithPortProbe(p pkgif.PortProbe) Option {
	return func(o *Orchestrator) {
		o.probe = p
	}
}

// WithDiscovery 指定局域网发现
func WithDiscovery(d pkgif.HostDiscovery) Option {
	return func(o *Orchestrator) {
		o.discovery = d
	}
}

// WithPublicAddressResolver 指定公网地址解析器
func WithPublicAddressResolver(r pkgif.PublicAddressResolver) Option {
	return func(o *Orchestrator) {
		o.resolver = r
	}
}

// WithPresenter 指定展示钩子
func WithPresenter(p pkgif.Presenter) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.presenter = p
		}
	}
}

// WithAdmission 指定人数控制器，主机路径上启动
func WithAdmission(c *admission.Controller) Option {
	return func(o *Orchestrator) {
		o.admission = c
	}
}

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithMetrics 指定指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithLocalAddresses 指定本机 IPv4 地址来源
func WithLocalAddresses(fn func() []string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.localAddrs = fn
		}
	}
}

// New 创建编排器
//
// bus 为 nil 时不发布状态事件。
func New(cfg *config.Config, t pkgif.Transport, bus pkgif.EventBus, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		cfg:          cfg.Clone(),
		transport:    t,
		configurator: transport.NewConfigurator(t),
		presenter:    nopPresenter{},
		clock:        clock.New(),
		localAddrs:   netaddr.LocalIPv4Addresses,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(o)
	}

	if bus != nil {
		var err error
		if o.stateEmitter, err = bus.Emitter(new(types.EvtStateChanged), pkgif.Stateful()); err != nil {
			cancel()
			return nil, fmt.Errorf("register state events: %w", err)
		}
		if o.publicEmitter, err = bus.Emitter(new(types.EvtPublicAddress), pkgif.Stateful()); err != nil {
			cancel()
			_ = o.stateEmitter.Close()
			return nil, fmt.Errorf("register public address events: %w", err)
		}
	}

	o.info = types.SessionInfo{
		State:       types.StateIdle,
		MaxPeers:    o.cfg.Session.MaxPeers,
		BindAddress: o.cfg.Session.BindAddress,
	}
	return o, nil
}

// Session 返回会话快照
func (o *Orchestrator) Session() *types.SessionInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.info
	s.Attempts = append([]types.ConnectionAttempt(nil), o.info.Attempts...)
	return &s
}

// State 返回当前状态
func (o *Orchestrator) State() types.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.info.State
}

// Role 返回当前角色
func (o *Orchestrator) Role() types.Role {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.info.Role
}

// Config 返回编排器使用的配置副本
func (o *Orchestrator) Config() *config.Config {
	return o.cfg.Clone()
}

// Stop 取消正在进行的序列并停止监听与客户端
//
// Stop 与 Resolve、Join 共用序列槽位，并发调用时按顺序执行。
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	prev, release := o.claimSequenceLocked(func() {})
	o.mu.Unlock()
	defer release()

	if prev != nil {
		<-prev
	}
	err := o.teardown()
	o.setState(types.StateStopped)
	return err
}

// Close 停止并释放编排器
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	err := o.Stop()
	o.cancel()

	for _, em := range []pkgif.Emitter{o.stateEmitter, o.publicEmitter} {
		if em != nil {
			err = multierr.Append(err, em.Close())
		}
	}
	return err
}

// teardown 停止后台任务、人数控制、客户端与监听器
func (o *Orchestrator) teardown() error {
	o.mu.Lock()
	bgCancel := o.bgCancel
	o.bgCancel = nil
	o.mu.Unlock()
	if bgCancel != nil {
		bgCancel()
	}
	o.bg.Wait()

	var err error
	if o.discovery != nil {
		err = multierr.Append(err, o.discovery.Close())
	}
	if o.admission != nil {
		o.admission.Stop()
	}
	err = multierr.Append(err, o.transport.StopClient())
	err = multierr.Append(err, o.transport.StopListener())
	o.presenter.HideStatus()
	return err
}

// ============================================================================
//                              会话状态
// ============================================================================

func (o *Orchestrator) update(fn func(s *types.SessionInfo)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(&o.info)
}

func (o *Orchestrator) setRole(role types.Role) {
	o.update(func(s *types.SessionInfo) { s.Role = role })
}

func (o *Orchestrator) setState(to types.State) {
	o.mu.Lock()
	from := o.info.State
	o.info.State = to
	role := o.info.Role
	o.mu.Unlock()

	if from == to {
		return
	}
	log.Debug("状态变化", "from", from, "to", to, "role", role)
	o.metrics.ObserveState(to, role)
	if o.stateEmitter != nil {
		_ = o.stateEmitter.Emit(types.EvtStateChanged{
			BaseEvent: types.NewBaseEvent("orchestrator.state"),
			From:      from,
			To:        to,
			Role:      role,
		})
	}
}

// reset 为新序列清空会话信息，状态保持不变
func (o *Orchestrator) reset() {
	o.update(func(s *types.SessionInfo) {
		*s = types.SessionInfo{
			State:       s.State,
			MaxPeers:    o.cfg.Session.MaxPeers,
			BindAddress: o.cfg.Session.BindAddress,
		}
	})
}

func (o *Orchestrator) recordAttempt(a types.ConnectionAttempt) {
	o.update(func(s *types.SessionInfo) { s.Attempts = append(s.Attempts, a) })
}

// sleep 可取消的等待
func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := o.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopPresenter struct{}

func (nopPresenter) ShowStatus(string)                   {}
func (nopPresenter) ShowCountdown(string, time.Duration) {}
func (nopPresenter) ShowHostCode(string)                 {}
func (nopPresenter) HideStatus()                         {}
