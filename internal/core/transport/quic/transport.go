package quic

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.transport.quic")

var _ pkgif.Transport = (*Transport)(nil)

// DefaultHandshakeTimeout 控制流握手超时
const DefaultHandshakeTimeout = 3 * time.Second

// Transport QUIC 会话传输
type Transport struct {
	instance string
	emitters *transport.Emitters

	serverTLS        *tls.Config
	clientTLS        *tls.Config
	quicConf         *quic.Config
	handshakeTimeout time.Duration

	mu       sync.Mutex
	settings pkgif.TransportSettings
	ln       *listenerState
	client   *clientSession
	closed   bool

	peersMu sync.Mutex
	peers   map[types.PeerID]*peerConn
	order   []types.PeerID
}

// New 创建 QUIC 传输
func New(bus pkgif.EventBus) (*Transport, error) {
	instance := uuid.NewString()

	serverTLS, clientTLS, err := newTLSConfigs(instance)
	if err != nil {
		return nil, err
	}
	emitters, err := transport.NewEmitters(bus)
	if err != nil {
		return nil, fmt.Errorf("register transport events: %w", err)
	}

	return &Transport{
		instance:  instance,
		emitters:  emitters,
		serverTLS: serverTLS,
		clientTLS: clientTLS,
		quicConf: &quic.Config{
			HandshakeIdleTimeout: 5 * time.Second,
			// 非优雅断开约 10s 内被发现
			MaxIdleTimeout:  10 * time.Second,
			KeepAlivePeriod: 3 * time.Second,
		},
		handshakeTimeout: DefaultHandshakeTimeout,
		peers:            make(map[types.PeerID]*peerConn),
	}, nil
}

// Instance 返回本传输实例标识
func (t *Transport) Instance() string {
	return t.instance
}

// Configure 应用设置
func (t *Transport) Configure(settings pkgif.TransportSettings) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return transport.ErrClosed
	}
	if t.ln != nil && settings.Port != t.settings.Port {
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

// Close 关闭传输
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return multierr.Combine(
		t.StopClient(),
		t.StopListener(),
		t.emitters.Close(),
	)
}

// reasonFromError 从连接错误推断断开原因
func reasonFromError(err error) types.DisconnectReason {
	var appErr *quic.ApplicationError
	if errors.As(err, &appErr) {
		return types.DisconnectReason(appErr.ErrorCode)
	}
	if errors.Is(err, io.EOF) {
		return types.DisconnectReasonGraceful
	}
	return types.DisconnectReasonError
}

// closeWith 以断开原因关闭 QUIC 连接
func closeWith(conn quic.Connection, reason types.DisconnectReason) error {
	return conn.CloseWithError(quic.ApplicationErrorCode(reason), reason.String())
}

// ignoreClosed 忽略主动关闭产生的错误
func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
