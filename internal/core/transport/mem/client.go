package mem

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// StartClient 开始连接 addr:port
func (t *Transport) StartClient(ctx context.Context, addr string, port int) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return transport.ErrClosed
	}
	if t.client != nil && !t.client.stopped {
		t.mu.Unlock()
		return transport.ErrClientActive
	}
	dialCtx, cancel := context.WithCancel(ctx)
	cs := &clientState{cancel: cancel, done: make(chan struct{})}
	t.client = cs
	t.mu.Unlock()

	go t.dial(dialCtx, cs, addr, port)
	return nil
}

// dial 模拟一次连接
func (t *Transport) dial(ctx context.Context, cs *clientState, addr string, port int) {
	defer close(cs.done)

	if !t.network.reachable(addr) {
		// 不可达：挂起直到取消
		<-ctx.Done()
		t.finishDial(cs, nil, ctx.Err())
		return
	}

	host, delay := t.network.lookup(port)
	if delay > 0 {
		select {
		case <-ctx.Done():
			t.finishDial(cs, nil, ctx.Err())
			return
		case <-time.After(delay):
		}
	}
	if host == nil {
		t.finishDial(cs, nil, fmt.Errorf("%w: %s", transport.ErrConnectionRefused, types.JoinHostPort(addr, port)))
		return
	}
	if ctx.Err() != nil {
		t.finishDial(cs, nil, ctx.Err())
		return
	}

	c, err := host.accept(t, addr)
	if err != nil {
		t.finishDial(cs, nil, err)
		return
	}
	if !t.finishDial(cs, c, nil) {
		// 在连接建立前被停止
		if _, n, ok := host.removePeer(c.id); ok {
			host.emitters.PeerDisconnected(c.id, n, types.DisconnectReasonGraceful)
		}
	}
}

func (t *Transport) finishDial(cs *clientState, c *conn, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cs.stopped {
		return false
	}
	cs.conn = c
	cs.connected = c != nil
	cs.err = err
	return true
}

// ClientConnected 客户端是否已连接
func (t *Transport) ClientConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client != nil && !t.client.stopped && t.client.connected
}

// ClientError 客户端连接失败原因
func (t *Transport) ClientError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil || t.client.stopped {
		return nil
	}
	return t.client.err
}

// StopClient 停止客户端
func (t *Transport) StopClient() error {
	t.mu.Lock()
	cs := t.client
	if cs == nil || cs.stopped {
		t.mu.Unlock()
		return nil
	}
	cs.stopped = true
	c := cs.conn
	cs.connected = false
	t.mu.Unlock()

	cs.cancel()
	<-cs.done

	if c != nil {
		if _, n, ok := c.host.removePeer(c.id); ok {
			c.host.emitters.PeerDisconnected(c.id, n, types.DisconnectReasonGraceful)
		}
	}
	return nil
}

// onClosedByHost 主机关闭了本客户端的连接
func (t *Transport) onClosedByHost(c *conn, reason types.DisconnectReason) {
	t.mu.Lock()
	cs := t.client
	if cs == nil || cs.stopped || cs.conn != c {
		t.mu.Unlock()
		return
	}
	cs.connected = false
	cs.conn = nil
	cs.err = fmt.Errorf("%w: %s", transport.ErrClientDisconnected, reason)
	t.mu.Unlock()

	t.emitters.ClientDisconnected(reason)
}
