package quic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// clientSession 一次客户端连接
type clientSession struct {
	cancel context.CancelFunc
	done   chan struct{}
	udp    *net.UDPConn
	tr     *quic.Transport

	mu        sync.Mutex
	conn      quic.Connection
	connected bool
	err       error
	stopped   bool
}

// setConn 记录已建立的 QUIC 连接，已停止时返回 false
func (cs *clientSession) setConn(conn quic.Connection) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stopped {
		return false
	}
	cs.conn = conn
	return true
}

func (cs *clientSession) setConnected() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stopped {
		return false
	}
	cs.connected = true
	return true
}

// fail 记录失败，已停止时返回 false
func (cs *clientSession) fail(err error) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stopped {
		return false
	}
	cs.connected = false
	cs.err = err
	return true
}

// StartClient 开始连接 addr:port
//
// 地址解析与拨号都在后台进行，StopClient 会取消仍在进行的 DNS 查询。
func (t *Transport) StartClient(ctx context.Context, addr string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return transport.ErrClosed
	}
	if t.client != nil {
		t.client.mu.Lock()
		active := !t.client.stopped
		t.client.mu.Unlock()
		if active {
			return transport.ErrClientActive
		}
	}

	// 客户端使用独立套接字，与监听器互不影响
	udp, err := net.ListenUDP("udp", nil)
	if err != nil {
		return fmt.Errorf("open client socket: %w", err)
	}

	dctx, cancel := context.WithCancel(ctx)
	cs := &clientSession{
		cancel: cancel,
		done:   make(chan struct{}),
		udp:    udp,
		tr:     &quic.Transport{Conn: udp},
	}
	t.client = cs

	go t.runClient(dctx, cs, addr, port)
	return nil
}

// resolveUDPAddr 在 ctx 内解析地址，优先 IPv4
func resolveUDPAddr(ctx context.Context, host string, port int) (*net.UDPAddr, error) {
	if ip := net.ParseIP(host); ip != nil {
		return &net.UDPAddr{IP: ip, Port: port}, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}
	chosen := addrs[0]
	for _, a := range addrs {
		if a.IP.To4() != nil {
			chosen = a
			break
		}
	}
	return &net.UDPAddr{IP: chosen.IP, Port: port, Zone: chosen.Zone}, nil
}

// runClient 解析、拨号、握手，然后读取主机下发的提示
func (t *Transport) runClient(ctx context.Context, cs *clientSession, addr string, port int) {
	defer close(cs.done)

	raddr, err := resolveUDPAddr(ctx, addr, port)
	if err != nil {
		cs.fail(fmt.Errorf("resolve %s: %w", addr, err))
		return
	}

	conn, err := cs.tr.Dial(ctx, raddr, t.clientTLS, t.quicConf)
	if err != nil {
		cs.fail(fmt.Errorf("dial %s: %w", raddr, err))
		return
	}
	if !cs.setConn(conn) {
		_ = closeWith(conn, types.DisconnectReasonGraceful)
		return
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		cs.fail(fmt.Errorf("open control stream: %w", err))
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}
	if err := writeControl(stream, controlMessage{Kind: kindHello, Instance: t.instance}); err != nil {
		cs.fail(fmt.Errorf("send hello: %w", err))
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}

	_ = stream.SetReadDeadline(time.Now().Add(t.handshakeTimeout))
	welcome, err := readControl(stream)
	if err != nil {
		cs.fail(handshakeError(err))
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}
	if welcome.Kind != kindWelcome {
		cs.fail(fmt.Errorf("unexpected control message %q", welcome.Kind))
		_ = closeWith(conn, types.DisconnectReasonError)
		return
	}
	_ = stream.SetReadDeadline(time.Time{})

	if !cs.setConnected() {
		return
	}
	log.Info("已连接到主机", "remote", raddr.String(), "peer", welcome.PeerID)

	for {
		msg, err := readControl(stream)
		if err != nil {
			reason := reasonFromError(err)
			if cs.fail(fmt.Errorf("%w: %s", transport.ErrClientDisconnected, reason)) {
				log.Info("与主机的连接已断开", "reason", reason)
				t.emitters.ClientDisconnected(reason)
			}
			return
		}
		if msg.Kind == kindNotice {
			t.emitters.NoticeReceived(msg.Message, msg.Countdown)
		}
	}
}

// handshakeError 将握手阶段的错误映射为传输错误
func handshakeError(err error) error {
	var appErr *quic.ApplicationError
	if errors.As(err, &appErr) && types.DisconnectReason(appErr.ErrorCode) == types.DisconnectReasonSessionFull {
		return fmt.Errorf("%w: %s", transport.ErrSessionFull, appErr.ErrorMessage)
	}
	return fmt.Errorf("handshake: %w", err)
}

// ClientConnected 客户端是否已连接
func (t *Transport) ClientConnected() bool {
	t.mu.Lock()
	cs := t.client
	t.mu.Unlock()
	if cs == nil {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return !cs.stopped && cs.connected
}

// ClientError 客户端连接失败原因
func (t *Transport) ClientError() error {
	t.mu.Lock()
	cs := t.client
	t.mu.Unlock()
	if cs == nil {
		return nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.stopped {
		return nil
	}
	return cs.err
}

// StopClient 停止客户端
func (t *Transport) StopClient() error {
	t.mu.Lock()
	cs := t.client
	t.mu.Unlock()
	if cs == nil {
		return nil
	}

	cs.mu.Lock()
	if cs.stopped {
		cs.mu.Unlock()
		return nil
	}
	cs.stopped = true
	cs.connected = false
	conn := cs.conn
	cs.mu.Unlock()

	cs.cancel()
	if conn != nil {
		_ = closeWith(conn, types.DisconnectReasonGraceful)
	}
	<-cs.done

	return multierr.Combine(
		ignoreClosed(cs.tr.Close()),
		ignoreClosed(cs.udp.Close()),
	)
}
