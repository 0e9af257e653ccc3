package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

func newTestTransport(t *testing.T, network *Network) (*Transport, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.NewBus()
	tr, err := New(network, bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr, bus
}

func startHost(t *testing.T, tr *Transport, port, maxConns int) {
	t.Helper()
	require.NoError(t, tr.Configure(pkgif.TransportSettings{
		BindAddress:    "0.0.0.0",
		Port:           port,
		MaxConnections: maxConns,
	}))
	require.NoError(t, tr.StartListener(context.Background()))
	require.True(t, tr.ListenerReady())
}

// TestTransport_LoopbackClientIsLocal 测试主机加入自己的会话
func TestTransport_LoopbackClientIsLocal(t *testing.T) {
	network := NewNetwork()
	host, bus := newTestTransport(t, network)

	sub, err := bus.Subscribe(new(types.EvtPeerConnected))
	require.NoError(t, err)
	defer sub.Close()

	startHost(t, host, 7777, 3)
	assert.True(t, network.IsPortInUse(7777))

	require.NoError(t, host.StartClient(context.Background(), "127.0.0.1", 7777))
	require.Eventually(t, host.ClientConnected, time.Second, 5*time.Millisecond)

	select {
	case e := <-sub.Out():
		evt := e.(types.EvtPeerConnected)
		assert.True(t, evt.Peer.IsLocal)
		assert.Equal(t, 1, evt.NumPeers)
	case <-time.After(time.Second):
		t.Fatal("未收到连接事件")
	}

	t.Log("✅ 回环客户端测试通过")
}

// TestTransport_RemoteClient 测试远端客户端连接与提示
func TestTransport_RemoteClient(t *testing.T) {
	network := NewNetwork()
	network.AddAddress("192.168.1.20")

	host, _ := newTestTransport(t, network)
	client, clientBus := newTestTransport(t, network)

	notices, err := clientBus.Subscribe(new(types.EvtNoticeReceived))
	require.NoError(t, err)
	defer notices.Close()
	kicked, err := clientBus.Subscribe(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	defer kicked.Close()

	startHost(t, host, 7777, 3)
	require.NoError(t, client.StartClient(context.Background(), "192.168.1.20", 7777))
	require.Eventually(t, client.ClientConnected, time.Second, 5*time.Millisecond)

	peers := host.Peers()
	require.Len(t, peers, 1)
	assert.False(t, peers[0].IsLocal)

	require.NoError(t, host.Notify(peers[0].ID, types.Notice{Message: "full", Countdown: 5 * time.Second}))
	select {
	case e := <-notices.Out():
		assert.Equal(t, "full", e.(types.EvtNoticeReceived).Notice.Message)
	case <-time.After(time.Second):
		t.Fatal("未收到提示")
	}

	require.NoError(t, host.Disconnect(peers[0].ID, types.DisconnectReasonSessionFull))
	select {
	case e := <-kicked.Out():
		assert.Equal(t, types.DisconnectReasonSessionFull, e.(types.EvtClientDisconnected).Reason)
	case <-time.After(time.Second):
		t.Fatal("未收到断开事件")
	}
	assert.False(t, client.ClientConnected())
	assert.ErrorIs(t, client.ClientError(), transport.ErrClientDisconnected)

	// 重复断开返回 ErrPeerNotFound
	assert.ErrorIs(t, host.Disconnect(peers[0].ID, types.DisconnectReasonSessionFull), transport.ErrPeerNotFound)
}

// TestTransport_HardCap 测试硬上限
func TestTransport_HardCap(t *testing.T) {
	network := NewNetwork()
	host, _ := newTestTransport(t, network)
	a, _ := newTestTransport(t, network)
	b, _ := newTestTransport(t, network)

	startHost(t, host, 7000, 1)

	require.NoError(t, a.StartClient(context.Background(), "127.0.0.1", 7000))
	require.Eventually(t, a.ClientConnected, time.Second, 5*time.Millisecond)

	require.NoError(t, b.StartClient(context.Background(), "127.0.0.1", 7000))
	require.Eventually(t, func() bool { return b.ClientError() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, b.ClientError(), transport.ErrSessionFull)
	assert.Len(t, host.Peers(), 1)
}

// TestTransport_Refused 测试无监听器的端口
func TestTransport_Refused(t *testing.T) {
	network := NewNetwork()
	client, _ := newTestTransport(t, network)

	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", 9999))
	require.Eventually(t, func() bool { return client.ClientError() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, client.ClientError(), transport.ErrConnectionRefused)
}

// TestTransport_UnreachableHangs 测试不可达地址挂起直到停止
func TestTransport_UnreachableHangs(t *testing.T) {
	network := NewNetwork()
	client, _ := newTestTransport(t, network)

	require.NoError(t, client.StartClient(context.Background(), "10.9.9.9", 7777))
	time.Sleep(30 * time.Millisecond)
	assert.False(t, client.ClientConnected())
	assert.NoError(t, client.ClientError())

	assert.ErrorIs(t, client.StartClient(context.Background(), "10.9.9.9", 7777), transport.ErrClientActive)
	require.NoError(t, client.StopClient())
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", 1))
}

// TestTransport_StopListener 测试停止监听器会断开所有对端
func TestTransport_StopListener(t *testing.T) {
	network := NewNetwork()
	host, bus := newTestTransport(t, network)
	client, clientBus := newTestTransport(t, network)

	disc, err := bus.Subscribe(new(types.EvtPeerDisconnected))
	require.NoError(t, err)
	defer disc.Close()
	kicked, err := clientBus.Subscribe(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	defer kicked.Close()

	startHost(t, host, 7777, 4)
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", 7777))
	require.Eventually(t, client.ClientConnected, time.Second, 5*time.Millisecond)

	require.NoError(t, host.StopListener())
	assert.False(t, network.IsPortInUse(7777))
	assert.Empty(t, host.Peers())

	select {
	case e := <-kicked.Out():
		assert.Equal(t, types.DisconnectReasonShutdown, e.(types.EvtClientDisconnected).Reason)
	case <-time.After(time.Second):
		t.Fatal("客户端未收到断开事件")
	}
}

// TestTransport_StopClientLeavesHost 测试客户端主动离开
func TestTransport_StopClientLeavesHost(t *testing.T) {
	network := NewNetwork()
	host, bus := newTestTransport(t, network)
	client, _ := newTestTransport(t, network)

	disc, err := bus.Subscribe(new(types.EvtPeerDisconnected))
	require.NoError(t, err)
	defer disc.Close()

	startHost(t, host, 7777, 4)
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", 7777))
	require.Eventually(t, client.ClientConnected, time.Second, 5*time.Millisecond)

	require.NoError(t, client.StopClient())
	select {
	case e := <-disc.Out():
		evt := e.(types.EvtPeerDisconnected)
		assert.Equal(t, types.DisconnectReasonGraceful, evt.Reason)
		assert.Equal(t, 0, evt.NumPeers)
	case <-time.After(time.Second):
		t.Fatal("主机未收到断开事件")
	}
}

// TestConfigurator_WithMemTransport 测试配置器应用硬上限
func TestConfigurator_WithMemTransport(t *testing.T) {
	tr, _ := newTestTransport(t, NewNetwork())
	cfg := transport.NewConfigurator(tr)

	require.NoError(t, cfg.Configure("", 0, 2))
	s := tr.Settings()
	assert.Equal(t, "0.0.0.0", s.BindAddress)
	assert.Equal(t, 7777, s.Port)
	assert.Equal(t, 3, s.MaxConnections)

	// 幂等
	require.NoError(t, cfg.Configure("", 0, 2))
	assert.Equal(t, s, tr.Settings())

	// 显式端口不会被覆盖
	require.NoError(t, cfg.Configure("127.0.0.1", 9000, 4))
	assert.Equal(t, 9000, tr.Settings().Port)
}
