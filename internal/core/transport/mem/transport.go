package mem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.transport.mem")

var _ pkgif.Transport = (*Transport)(nil)

// conn 一条进程内连接
type conn struct {
	id       types.PeerID
	host     *Transport
	client   *Transport
	joinTime time.Time
	isLocal  bool
	remote   string
}

// clientState 客户端状态
type clientState struct {
	cancel    context.CancelFunc
	done      chan struct{}
	conn      *conn
	connected bool
	err       error
	stopped   bool
}

// Transport 进程内传输
type Transport struct {
	network  *Network
	emitters *transport.Emitters

	mu        sync.Mutex
	settings  pkgif.TransportSettings
	listening bool
	peers     map[types.PeerID]*conn
	order     []types.PeerID
	client    *clientState
	closed    bool
}

// New 创建进程内传输
func New(network *Network, bus pkgif.EventBus) (*Transport, error) {
	emitters, err := transport.NewEmitters(bus)
	if err != nil {
		return nil, fmt.Errorf("register transport events: %w", err)
	}
	return &Transport{
		network:  network,
		emitters: emitters,
		peers:    make(map[types.PeerID]*conn),
	}, nil
}

// Configure 应用设置
func (t *Transport) Configure(settings pkgif.TransportSettings) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return transport.ErrClosed
	}
	if t.listening && settings.Port != t.settings.Port {
		return fmt.Errorf("%w: cannot change port while listening", transport.ErrInvalidConfig)
	}
	t.settings = settings
	return nil
}

// Settings 返回当前设置
func (t *Transport) Settings() pkgif.TransportSettings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// StartListener 启动监听器
func (t *Transport) StartListener(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return transport.ErrClosed
	}
	if t.listening {
		return transport.ErrAlreadyListening
	}
	if !t.network.bind(t.settings.Port, t) {
		return fmt.Errorf("bind port %d: address already in use", t.settings.Port)
	}
	t.listening = true
	log.Debug("监听器已启动", "port", t.settings.Port)
	return nil
}

// ListenerReady 监听器是否就绪
func (t *Transport) ListenerReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listening
}

// StopListener 停止监听器并断开全部对端
func (t *Transport) StopListener() error {
	t.mu.Lock()
	if !t.listening {
		t.mu.Unlock()
		return nil
	}
	t.listening = false
	t.network.unbind(t.settings.Port, t)
	peers := t.takePeersLocked()
	t.mu.Unlock()

	for i, c := range peers {
		t.emitters.PeerDisconnected(c.id, len(peers)-i-1, types.DisconnectReasonShutdown)
		c.client.onClosedByHost(c, types.DisconnectReasonShutdown)
	}
	return nil
}

// Peers 返回已连接对端（按加入顺序）
func (t *Transport) Peers() []types.ConnectedPeer {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.ConnectedPeer, 0, len(t.order))
	for _, id := range t.order {
		c := t.peers[id]
		out = append(out, types.ConnectedPeer{
			ID:         c.id,
			JoinTime:   c.joinTime,
			IsLocal:    c.isLocal,
			RemoteAddr: c.remote,
		})
	}
	return out
}

// Notify 向对端发送提示
func (t *Transport) Notify(peer types.PeerID, notice types.Notice) error {
	t.mu.Lock()
	c, ok := t.peers[peer]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", transport.ErrPeerNotFound, peer)
	}
	c.client.emitters.NoticeReceived(notice.Message, notice.Countdown)
	return nil
}

// Disconnect 断开对端
func (t *Transport) Disconnect(peer types.PeerID, reason types.DisconnectReason) error {
	c, n, ok := t.removePeer(peer)
	if !ok {
		return fmt.Errorf("%w: %s", transport.ErrPeerNotFound, peer)
	}
	t.emitters.PeerDisconnected(peer, n, reason)
	c.client.onClosedByHost(c, reason)
	return nil
}

// Close 关闭传输
func (t *Transport) Close() error {
	_ = t.StopClient()
	_ = t.StopListener()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.emitters.Close()
}

// ============================================================================
//                              主机侧
// ============================================================================

// accept 处理连接请求
func (t *Transport) accept(client *Transport, remote string) (*conn, error) {
	t.mu.Lock()
	if !t.listening {
		t.mu.Unlock()
		return nil, transport.ErrConnectionRefused
	}
	if t.settings.MaxConnections > 0 && len(t.peers) >= t.settings.MaxConnections {
		t.mu.Unlock()
		return nil, transport.ErrSessionFull
	}
	c := &conn{
		id:       types.PeerID(uuid.NewString()),
		host:     t,
		client:   client,
		joinTime: time.Now(),
		isLocal:  client == t,
		remote:   remote,
	}
	t.peers[c.id] = c
	t.order = append(t.order, c.id)
	n := len(t.peers)
	t.mu.Unlock()

	t.emitters.PeerConnected(types.ConnectedPeer{
		ID:         c.id,
		JoinTime:   c.joinTime,
		IsLocal:    c.isLocal,
		RemoteAddr: remote,
	}, n)
	return c, nil
}

func (t *Transport) removePeer(id types.PeerID) (*conn, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.peers[id]
	if !ok {
		return nil, len(t.peers), false
	}
	delete(t.peers, id)
	for i, pid := range t.order {
		if pid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return c, len(t.peers), true
}

func (t *Transport) takePeersLocked() []*conn {
	out := make([]*conn, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.peers[id])
	}
	t.peers = make(map[types.PeerID]*conn)
	t.order = nil
	return out
}
