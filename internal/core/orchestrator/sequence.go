package orchestrator

import (
	"context"
	"fmt"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/netaddr"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// Resolve 判定角色并建立会话
//
// 阻塞直到进入终态。被取消时返回 Stopped 状态与 nil 错误。
func (o *Orchestrator) Resolve(ctx context.Context) (*types.SessionInfo, error) {
	return o.run(ctx, o.resolve)
}

// Join 以客户端身份加入 address
//
// 候选列表为 address 加上本机候选地址，重试与回退策略与 Resolve 相同。
func (o *Orchestrator) Join(ctx context.Context, address string) (*types.SessionInfo, error) {
	if err := config.ValidateRemoteAddress(address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return o.run(ctx, func(ctx context.Context) error {
		o.setState(types.StateProbingRole)
		port := o.cfg.Session.EffectivePort()
		host, remotePort := netaddr.SplitHostPort(address, port)
		candidates := netaddr.BuildCandidates(host, o.localAddrs())
		return o.clientPath(ctx, candidates, remotePort, port)
	})
}

// claimSequenceLocked 占用序列槽位并取消当前序列
//
// 调用方持有 o.mu。返回前一个序列的完成通道，以及结束时调用的 release。
func (o *Orchestrator) claimSequenceLocked(cancel context.CancelFunc) (<-chan struct{}, func()) {
	if o.seqCancel != nil {
		o.seqCancel()
	}
	prev := o.seqDone
	done := make(chan struct{})
	o.seqCancel, o.seqDone = cancel, done

	release := func() {
		o.mu.Lock()
		if o.seqDone == done {
			o.seqCancel, o.seqDone = nil, nil
		}
		o.mu.Unlock()
		close(done)
	}
	return prev, release
}

// run 取消前一个序列，等待其退出后运行新序列
func (o *Orchestrator) run(parent context.Context, seq func(ctx context.Context) error) (*types.SessionInfo, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	ctx, cancel := context.WithCancel(parent)
	prev, release := o.claimSequenceLocked(cancel)
	o.mu.Unlock()

	defer func() {
		cancel()
		release()
	}()

	if prev != nil {
		<-prev
	}

	// 已连接时先停止已有的监听与客户端
	if err := o.teardown(); err != nil {
		log.Debug("停止旧会话时出错", "error", err)
	}
	o.reset()

	err := ctx.Err()
	if err == nil {
		err = seq(ctx)
	}
	if err != nil && ctx.Err() != nil {
		log.Info("连接序列已取消")
		_ = o.teardown()
		o.setState(types.StateStopped)
		return o.Session(), nil
	}
	return o.Session(), err
}

// resolve 判定角色
func (o *Orchestrator) resolve(ctx context.Context) error {
	o.setState(types.StateProbingRole)
	port := o.cfg.Session.EffectivePort()

	if explicit := o.cfg.Session.ExplicitRemoteAddress; explicit != "" {
		host, remotePort := netaddr.SplitHostPort(explicit, port)
		log.Info("使用显式远端地址", "addr", host, "port", remotePort)
		return o.clientPath(ctx, []string{host}, remotePort, port)
	}

	if o.cfg.Connect.AutoStartLocalClient && o.probe != nil && o.probe.IsPortInUse(port) {
		log.Warn("会话端口已被占用，推测本机已有主机，以回环客户端加入（启发式判断）", "port", port)
		return o.clientPath(ctx, []string{netaddr.Loopback}, port, port)
	}

	if host, ok := o.findHost(ctx); ok {
		return o.clientPath(ctx, []string{host.Addr}, host.Port, port)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return o.hostPath(ctx, port)
}

// findHost 在限定时间内查找局域网主机
func (o *Orchestrator) findHost(ctx context.Context) (types.HostInfo, bool) {
	if o.discovery == nil || !o.cfg.Discovery.Enable {
		return types.HostInfo{}, false
	}
	findCtx, cancel := context.WithTimeout(ctx, o.cfg.Discovery.FindTimeout.Duration())
	defer cancel()

	host, err := o.discovery.Find(findCtx)
	if err != nil {
		log.Debug("局域网中未发现主机", "error", err)
		return types.HostInfo{}, false
	}
	log.Info("发现局域网主机", "addr", host.Addr, "port", host.Port)
	return host, true
}
