package quic

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// listenerState 监听器运行状态
type listenerState struct {
	udp    *net.UDPConn
	tr     *quic.Transport
	ln     *quic.Listener
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ready  atomic.Bool
}

// peerConn 主机侧的一条对端连接
type peerConn struct {
	info    types.ConnectedPeer
	conn    quic.Connection
	stream  quic.Stream
	writeMu sync.Mutex
}

func (p *peerConn) send(m controlMessage) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return writeControl(p.stream, m)
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
	if t.ln != nil {
		return transport.ErrAlreadyListening
	}

	laddr := &net.UDPAddr{IP: net.ParseIP(t.settings.BindAddress), Port: t.settings.Port}
	udp, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", laddr, err)
	}
	qtr := &quic.Transport{Conn: udp}
	ln, err := qtr.Listen(t.serverTLS, t.quicConf)
	if err != nil {
		_ = qtr.Close()
		_ = udp.Close()
		return fmt.Errorf("quic listen: %w", err)
	}

	lctx, cancel := context.WithCancel(context.Background())
	ls := &listenerState{udp: udp, tr: qtr, ln: ln, cancel: cancel}
	t.ln = ls

	ls.wg.Add(1)
	go t.acceptLoop(lctx, ls)
	ls.ready.Store(true)

	log.Info("监听器已启动", "addr", udp.LocalAddr().String(), "maxConnections", t.settings.MaxConnections)
	return nil
}

// ListenerReady 监听器是否就绪
func (t *Transport) ListenerReady() bool {
	t.mu.Lock()
	ls := t.ln
	t.mu.Unlock()
	return ls != nil && ls.ready.Load()
}

// ListenAddr 返回监听地址（未监听时为 nil）
func (t *Transport) ListenAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln == nil {
		return nil
	}
	return t.ln.udp.LocalAddr()
}

// StopListener 停止监听器并断开全部对端
func (t *Transport) StopListener() error {
	t.mu.Lock()
	ls := t.ln
	t.ln = nil
	t.mu.Unlock()
	if ls == nil {
		return nil
	}

	ls.ready.Store(false)
	ls.cancel()

	peers := t.takePeers()
	for i, p := range peers {
		t.emitters.PeerDisconnected(p.info.ID, len(peers)-i-1, types.DisconnectReasonShutdown)
		_ = closeWith(p.conn, types.DisconnectReasonShutdown)
	}

	err := multierr.Combine(
		ignoreClosed(ls.ln.Close()),
		ignoreClosed(ls.tr.Close()),
		ignoreClosed(ls.udp.Close()),
	)
	ls.wg.Wait()

	log.Info("监听器已停止")
	return err
}

// acceptLoop 接受连接
func (t *Transport) acceptLoop(ctx context.Context, ls *listenerState) {
	defer ls.wg.Done()

	for {
		conn, err := ls.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Debug("接受连接结束", "error", err)
			}
			return
		}
		ls.wg.Add(1)
		go func() {
			defer ls.wg.Done()
			t.handleConn(ctx, conn)
		}()
	}
}

// handleConn 完成控制流握手并读取直到连接结束
func (t *Transport) handleConn(ctx context.Context, conn quic.Connection) {
	remote := conn.RemoteAddr().String()

	hctx, cancel := context.WithTimeout(ctx, t.handshakeTimeout)
	stream, err := conn.AcceptStream(hctx)
	cancel()
	if err != nil {
		log.Debug("等待控制流失败", "remote", remote, "error", err)
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}

	_ = stream.SetReadDeadline(time.Now().Add(t.handshakeTimeout))
	hello, err := readControl(stream)
	if err != nil || hello.Kind != kindHello {
		log.Debug("控制流握手失败", "remote", remote, "error", err)
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}
	_ = stream.SetReadDeadline(time.Time{})

	pc, n, err := t.addPeer(conn, stream, remote, hello.Instance == t.instance)
	if err != nil {
		log.Info("已达连接硬上限，拒绝连接", "remote", remote)
		_ = closeWith(conn, types.DisconnectReasonSessionFull)
		return
	}

	if err := pc.send(controlMessage{Kind: kindWelcome, PeerID: string(pc.info.ID)}); err != nil {
		t.removePeer(pc.info.ID)
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}

	log.Debug("对端已连接", "peer", pc.info.ID.ShortString(), "remote", remote, "local", pc.info.IsLocal)
	t.emitters.PeerConnected(pc.info, n)

	// 客户端不会再发送消息，读到错误即连接结束
	for {
		if _, err = readControl(stream); err != nil {
			break
		}
	}

	if _, left, ok := t.removePeer(pc.info.ID); ok {
		reason := reasonFromError(err)
		log.Debug("对端已断开", "peer", pc.info.ID.ShortString(), "reason", reason)
		t.emitters.PeerDisconnected(pc.info.ID, left, reason)
	}
}

// Peers 返回已连接对端（按加入顺序）
func (t *Transport) Peers() []types.ConnectedPeer {
	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	out := make([]types.ConnectedPeer, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.peers[id].info)
	}
	return out
}

// Notify 向对端发送提示
func (t *Transport) Notify(peer types.PeerID, notice types.Notice) error {
	t.peersMu.Lock()
	pc, ok := t.peers[peer]
	t.peersMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", transport.ErrPeerNotFound, peer)
	}
	return pc.send(controlMessage{
		Kind:      kindNotice,
		Message:   notice.Message,
		Countdown: notice.Countdown,
	})
}

// Disconnect 断开对端
func (t *Transport) Disconnect(peer types.PeerID, reason types.DisconnectReason) error {
	pc, n, ok := t.removePeer(peer)
	if !ok {
		return fmt.Errorf("%w: %s", transport.ErrPeerNotFound, peer)
	}
	t.emitters.PeerDisconnected(peer, n, reason)
	return closeWith(pc.conn, reason)
}

func (t *Transport) addPeer(conn quic.Connection, stream quic.Stream, remote string, isLocal bool) (*peerConn, int, error) {
	limit := t.Settings().MaxConnections

	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	if limit > 0 && len(t.peers) >= limit {
		return nil, len(t.peers), transport.ErrSessionFull
	}
	pc := &peerConn{
		info: types.ConnectedPeer{
			ID:         types.PeerID(uuid.NewString()),
			JoinTime:   time.Now(),
			IsLocal:    isLocal,
			RemoteAddr: remote,
		},
		conn:   conn,
		stream: stream,
	}
	t.peers[pc.info.ID] = pc
	t.order = append(t.order, pc.info.ID)
	return pc, len(t.peers), nil
}

func (t *Transport) removePeer(id types.PeerID) (*peerConn, int, bool) {
	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	pc, ok := t.peers[id]
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
	return pc, len(t.peers), true
}

func (t *Transport) takePeers() []*peerConn {
	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	out := make([]*peerConn, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.peers[id])
	}
	t.peers = make(map[types.PeerID]*peerConn)
	t.order = nil
	return out
}
