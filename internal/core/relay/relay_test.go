package relay

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	"github.com/dep2p/go-lanlink/internal/core/transport/mem"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

type fixture struct {
	host      *mem.Transport
	client    *mem.Transport
	clientBus *eventbus.Bus
	peer      types.PeerID
}

// newFixture 启动主机并连接一个远端客户端
func newFixture(t *testing.T) *fixture {
	t.Helper()
	network := mem.NewNetwork()

	host, err := mem.New(network, eventbus.NewBus())
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })
	require.NoError(t, host.Configure(pkgif.TransportSettings{BindAddress: "0.0.0.0", Port: 7777, MaxConnections: 3}))
	require.NoError(t, host.StartListener(context.Background()))

	clientBus := eventbus.NewBus()
	client, err := mem.New(network, clientBus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", 7777))
	require.Eventually(t, client.ClientConnected, time.Second, 5*time.Millisecond)

	peers := host.Peers()
	require.Len(t, peers, 1)
	return &fixture{host: host, client: client, clientBus: clientBus, peer: peers[0].ID}
}

// TestRelay_NotifyThenDisconnect 测试先通知后断开
func TestRelay_NotifyThenDisconnect(t *testing.T) {
	f := newFixture(t)

	notices, err := f.clientBus.Subscribe(new(types.EvtNoticeReceived))
	require.NoError(t, err)
	defer notices.Close()
	closed, err := f.clientBus.Subscribe(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	defer closed.Close()

	mock := clock.NewMock()
	r := New(f.host, WithClock(mock), WithCountdown(5*time.Second))
	defer r.Close()

	require.NoError(t, r.NotifyAndDisconnect(f.peer, "Session full", 800*time.Millisecond))
	assert.Equal(t, 1, r.Pending())

	select {
	case e := <-notices.Out():
		evt := e.(types.EvtNoticeReceived)
		assert.Equal(t, "Session full", evt.Notice.Message)
		assert.Equal(t, 5*time.Second, evt.Notice.Countdown)
	case <-time.After(time.Second):
		t.Fatal("客户端未收到提示")
	}

	// 宽限期内仍然连接
	mock.Add(500 * time.Millisecond)
	assert.True(t, f.client.ClientConnected())

	mock.Add(300 * time.Millisecond)
	require.Eventually(t, func() bool { return len(f.host.Peers()) == 0 }, time.Second, 5*time.Millisecond)

	select {
	case e := <-closed.Out():
		assert.Equal(t, types.DisconnectReasonSessionFull, e.(types.EvtClientDisconnected).Reason)
	case <-time.After(time.Second):
		t.Fatal("客户端未收到断开事件")
	}
	assert.Equal(t, 0, r.Pending())
	t.Log("✅ 通知后按宽限期断开")
}

// TestRelay_Idempotent 测试同一对端只安排一次断开
func TestRelay_Idempotent(t *testing.T) {
	f := newFixture(t)
	mock := clock.NewMock()
	r := New(f.host, WithClock(mock))
	defer r.Close()

	require.NoError(t, r.NotifyAndDisconnect(f.peer, "full", time.Second))
	require.NoError(t, r.NotifyAndDisconnect(f.peer, "full", time.Second))
	assert.Equal(t, 1, r.Pending())
}

// TestRelay_PeerLeftBeforeGrace 测试对端提前离开
func TestRelay_PeerLeftBeforeGrace(t *testing.T) {
	f := newFixture(t)
	mock := clock.NewMock()
	r := New(f.host, WithClock(mock))
	defer r.Close()

	require.NoError(t, r.NotifyAndDisconnect(f.peer, "full", time.Second))
	require.NoError(t, f.client.StopClient())
	require.Empty(t, f.host.Peers())

	assert.NotPanics(t, func() { mock.Add(time.Second) })
	require.Eventually(t, func() bool { return r.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

// TestRelay_NotifyUnknownPeer 测试未知对端
func TestRelay_NotifyUnknownPeer(t *testing.T) {
	f := newFixture(t)
	r := New(f.host)
	defer r.Close()

	err := r.NotifyAndDisconnect("missing", "full", time.Second)
	assert.ErrorIs(t, err, ErrNotifyFailed)
	assert.ErrorIs(t, err, transport.ErrPeerNotFound)
	assert.Equal(t, 0, r.Pending())
}

// TestRelay_CancelAndClose 测试取消与关闭
func TestRelay_CancelAndClose(t *testing.T) {
	f := newFixture(t)
	mock := clock.NewMock()
	r := New(f.host, WithClock(mock))

	require.NoError(t, r.NotifyAndDisconnect(f.peer, "full", time.Second))
	assert.True(t, r.Cancel(f.peer))
	assert.False(t, r.Cancel(f.peer))

	mock.Add(2 * time.Second)
	assert.Len(t, f.host.Peers(), 1)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.NotifyAndDisconnect(f.peer, "full", time.Second), ErrClosed)
}
