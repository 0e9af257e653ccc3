package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/internal/core/admission"
	"github.com/dep2p/go-lanlink/internal/core/netaddr"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// hostPath 启动主机；失败时进入 Failed
func (o *Orchestrator) hostPath(ctx context.Context, port int) error {
	err := o.startHost(ctx, port)
	if err != nil && ctx.Err() == nil {
		log.Error("启动主机失败", "port", port, "error", err)
		if rerr := o.releaseHost(); rerr != nil {
			log.Debug("释放主机资源时出错", "error", rerr)
		}
		o.setState(types.StateFailed)
		o.presenter.ShowStatus("Could not start host")
	}
	return err
}

// releaseHost 停止人数控制、回环客户端与监听器
//
// Failed 会话不再占用端口，也不再接纳对端。
func (o *Orchestrator) releaseHost() error {
	if o.admission != nil {
		o.admission.Stop()
	}
	return multierr.Append(o.transport.StopClient(), o.transport.StopListener())
}

func (o *Orchestrator) startHost(ctx context.Context, port int) error {
	o.setRole(types.RoleHost)
	o.setState(types.StateStartingHost)
	o.presenter.ShowStatus("Starting host...")

	_ = o.transport.StopClient()

	s := o.cfg.Session
	if err := o.configurator.Configure(s.BindAddress, port, s.MaxPeers); err != nil {
		return err
	}
	settings := o.transport.Settings()

	if o.admission != nil {
		if err := o.admission.Start(); err != nil && !errors.Is(err, admission.ErrAlreadyStarted) {
			return fmt.Errorf("start admission control: %w", err)
		}
	}
	if err := o.transport.StartListener(ctx); err != nil {
		if o.admission != nil {
			o.admission.Stop()
		}
		return fmt.Errorf("%w: %w", ErrHostStart, err)
	}
	o.update(func(info *types.SessionInfo) {
		info.BoundPort = settings.Port
		info.BindAddress = settings.BindAddress
	})

	o.setState(types.StateWaitingHostReady)
	ready, err := o.waitHostReady(ctx)
	if err != nil {
		return err
	}
	if !ready {
		log.Warn("监听器就绪状态不确定，仍然启动回环客户端",
			"port", settings.Port,
			"timeout", o.cfg.Connect.HostReadyTimeout.Duration())
	}

	o.setState(types.StateStartingLoopbackClient)
	target := loopbackTarget(settings.BindAddress)
	outcome, err := o.dial(ctx, target, settings.Port, o.cfg.Connect.Timeout.Duration())
	switch outcome {
	case types.OutcomeSucceeded:
	case types.OutcomeCanceled:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %w", ErrLoopbackClient, err)
	}

	o.setState(types.StateConnected)
	o.presenter.ShowStatus(fmt.Sprintf("Hosting on port %d", settings.Port))
	o.startHostServices(settings.Port)

	log.Info("主机已就绪",
		"bind", settings.BindAddress,
		"port", settings.Port,
		"maxPeers", s.MaxPeers)
	return nil
}

// waitHostReady 轮询监听器就绪，超时返回 false
func (o *Orchestrator) waitHostReady(ctx context.Context) (bool, error) {
	if o.transport.ListenerReady() {
		return true, nil
	}

	timeout := o.clock.Timer(o.cfg.Connect.HostReadyTimeout.Duration())
	defer timeout.Stop()
	poll := o.clock.Ticker(o.cfg.Connect.HostReadyPollInterval.Duration())
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timeout.C:
			return o.transport.ListenerReady(), nil
		case <-poll.C:
			if o.transport.ListenerReady() {
				return true, nil
			}
		}
	}
}

// startHostServices 启动发现响应与主机地址展示
func (o *Orchestrator) startHostServices(port int) {
	bgCtx, cancel := context.WithCancel(o.ctx)
	o.mu.Lock()
	o.bgCancel = cancel
	o.mu.Unlock()

	if o.discovery != nil && o.cfg.Discovery.Enable {
		if err := o.discovery.Advertise(bgCtx, port); err != nil {
			log.Warn("启动局域网发现响应失败", "error", err)
		}
	}

	if !o.cfg.PublicAddress.AutoDetect || o.resolver == nil {
		o.publishHostCode(o.lanAddress(), false, port)
		return
	}

	o.bg.Add(1)
	go func() {
		defer o.bg.Done()
		addr, ok := o.resolver.GetPublicAddress(bgCtx, o.cfg.PublicAddress.Timeout.Duration())
		o.metrics.ObservePublicLookup(ok)
		if bgCtx.Err() != nil {
			return
		}
		if !ok {
			log.Info("公网地址不可用，展示局域网地址")
			addr = o.lanAddress()
		}
		o.publishHostCode(addr, ok, port)
	}()
}

// publishHostCode 展示可供加入的地址
func (o *Orchestrator) publishHostCode(addr string, public bool, port int) {
	if public {
		o.update(func(s *types.SessionInfo) { s.PublicAddress = addr })
	}
	if o.publicEmitter != nil {
		evt := types.EvtPublicAddress{
			BaseEvent: types.NewBaseEvent("orchestrator.public_address"),
			Found:     public,
		}
		if public {
			evt.Address = addr
		}
		_ = o.publicEmitter.Emit(evt)
	}

	code := types.JoinHostPort(addr, port)
	log.Info("主机地址", "code", code, "public", public)
	o.presenter.ShowHostCode(code)
}

// lanAddress 返回第一个本机地址
func (o *Orchestrator) lanAddress() string {
	if addrs := o.localAddrs(); len(addrs) > 0 {
		return addrs[0]
	}
	return netaddr.Loopback
}

// loopbackTarget 主机加入自己会话时连接的地址
func loopbackTarget(bind string) string {
	ip, err := netip.ParseAddr(bind)
	if err != nil || ip.IsUnspecified() || ip.IsLoopback() {
		return netaddr.Loopback
	}
	return bind
}
