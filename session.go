package lanlink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/orchestrator"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("lanlink")

const (
	startTimeout = 10 * time.Second
	stopTimeout  = 10 * time.Second
)

// Session 本进程的局域网会话
//
// 创建后需要调用 Start 启动组件，再通过 Resolve 或 Join 建立连接。
// Stop 只结束当前连接，会话可以再次 Resolve；Close 释放全部资源。
type Session struct {
	cfg *config.Config
	app *fx.App

	orch *orchestrator.Orchestrator
	bus  pkgif.EventBus

	mu      sync.Mutex
	started bool
	closed  bool
}

// New 创建会话
//
// 示例：
//
//	s, err := lanlink.New(
//	    lanlink.WithPort(7777),
//	    lanlink.WithMaxPeers(4),
//	    lanlink.WithDiscovery(config.DiscoveryModeMDNS),
//	)
func New(opts ...Option) (*Session, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if o.config.Log.Level != "" || o.config.Log.Format != "" {
		logger.Apply(o.config.Log.Level, o.config.Log.Format)
	}

	s := &Session{cfg: o.config}
	app, err := buildFxApp(o, s)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	s.app = app
	return s, nil
}

// Start 启动会话组件
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := s.app.Start(startCtx); err != nil {
		log.Error("会话组件启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	s.started = true
	log.Debug("会话组件已启动", "port", s.cfg.Session.EffectivePort())
	return nil
}

// ready 检查会话可用
func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Resolve 判定角色并建立连接
//
// 重复调用会取消上一次未完成的判定并从头开始。
func (s *Session) Resolve(ctx context.Context) (*types.SessionInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.orch.Resolve(ctx)
}

// Join 以客户端身份加入指定地址
//
// address 可以是 host 或 host:port。
func (s *Session) Join(ctx context.Context, address string) (*types.SessionInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.orch.Join(ctx, address)
}

// Stop 结束当前连接
func (s *Session) Stop() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.orch.Stop()
}

// Info 返回会话快照
func (s *Session) Info() *types.SessionInfo {
	return s.orch.Session()
}

// State 返回当前编排状态
func (s *Session) State() types.State {
	return s.orch.State()
}

// Config 返回生效的配置副本
func (s *Session) Config() *config.Config {
	return s.cfg.Clone()
}

// EventBus 返回会话事件总线
//
// 可订阅 types.EvtStateChanged、types.EvtPeerConnected 等事件。
func (s *Session) EventBus() pkgif.EventBus {
	return s.bus
}

// Close 关闭会话并释放全部资源
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	started := s.started
	s.mu.Unlock()

	if !started {
		return s.orch.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := s.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	log.Debug("会话已关闭")
	return nil
}
