package quic

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/internal/core/transport"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

func newTestTransport(t *testing.T) (*Transport, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.NewBus()
	tr, err := New(bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr, bus
}

// startTestHost 在回环地址的随机端口上监听，返回实际端口
func startTestHost(t *testing.T, tr *Transport, maxConns int) int {
	t.Helper()
	require.NoError(t, tr.Configure(pkgif.TransportSettings{
		BindAddress:    "127.0.0.1",
		Port:           0,
		MaxConnections: maxConns,
	}))
	require.NoError(t, tr.StartListener(context.Background()))
	require.True(t, tr.ListenerReady())
	return tr.ListenAddr().(*net.UDPAddr).Port
}

func waitEvent(t *testing.T, sub pkgif.Subscription) interface{} {
	t.Helper()
	select {
	case e := <-sub.Out():
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("等待事件超时")
		return nil
	}
}

// TestTransport_LoopbackIsLocal 测试主机加入自己的会话
func TestTransport_LoopbackIsLocal(t *testing.T) {
	host, bus := newTestTransport(t)
	sub, err := bus.Subscribe(new(types.EvtPeerConnected))
	require.NoError(t, err)
	defer sub.Close()

	port := startTestHost(t, host, 3)
	require.NoError(t, host.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, host.ClientConnected, 5*time.Second, 10*time.Millisecond)

	evt := waitEvent(t, sub).(types.EvtPeerConnected)
	assert.True(t, evt.Peer.IsLocal)
	assert.Equal(t, 1, evt.NumPeers)

	t.Log("✅ QUIC 回环客户端测试通过")
}

// TestTransport_NoticeAndKick 测试提示与驱逐
func TestTransport_NoticeAndKick(t *testing.T) {
	host, hostBus := newTestTransport(t)
	client, clientBus := newTestTransport(t)

	connected, err := hostBus.Subscribe(new(types.EvtPeerConnected))
	require.NoError(t, err)
	defer connected.Close()
	notices, err := clientBus.Subscribe(new(types.EvtNoticeReceived))
	require.NoError(t, err)
	defer notices.Close()
	kicked, err := clientBus.Subscribe(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	defer kicked.Close()

	port := startTestHost(t, host, 3)
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, client.ClientConnected, 5*time.Second, 10*time.Millisecond)

	evt := waitEvent(t, connected).(types.EvtPeerConnected)
	assert.False(t, evt.Peer.IsLocal)

	require.NoError(t, host.Notify(evt.Peer.ID, types.Notice{Message: "full", Countdown: 5 * time.Second}))
	notice := waitEvent(t, notices).(types.EvtNoticeReceived)
	assert.Equal(t, "full", notice.Notice.Message)
	assert.Equal(t, 5*time.Second, notice.Notice.Countdown)

	require.NoError(t, host.Disconnect(evt.Peer.ID, types.DisconnectReasonSessionFull))
	gone := waitEvent(t, kicked).(types.EvtClientDisconnected)
	assert.Equal(t, types.DisconnectReasonSessionFull, gone.Reason)
	assert.False(t, client.ClientConnected())
	assert.Empty(t, host.Peers())
}

// TestTransport_HardCap 测试超过硬上限的连接被拒绝
func TestTransport_HardCap(t *testing.T) {
	host, _ := newTestTransport(t)
	a, _ := newTestTransport(t)
	b, _ := newTestTransport(t)

	port := startTestHost(t, host, 1)

	require.NoError(t, a.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, a.ClientConnected, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, b.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, func() bool { return b.ClientError() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, b.ClientError(), transport.ErrSessionFull)
	assert.Len(t, host.Peers(), 1)
}

// TestTransport_ClientLeaves 测试客户端主动离开
func TestTransport_ClientLeaves(t *testing.T) {
	host, hostBus := newTestTransport(t)
	client, _ := newTestTransport(t)

	disc, err := hostBus.Subscribe(new(types.EvtPeerDisconnected))
	require.NoError(t, err)
	defer disc.Close()

	port := startTestHost(t, host, 3)
	require.NoError(t, client.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, client.ClientConnected, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, client.StopClient())
	evt := waitEvent(t, disc).(types.EvtPeerDisconnected)
	assert.Equal(t, types.DisconnectReasonGraceful, evt.Reason)
	assert.Equal(t, 0, evt.NumPeers)
}

// TestTransport_StopListener 测试停止监听器
func TestTransport_StopListener(t *testing.T) {
	host, _ := newTestTransport(t)
	port := startTestHost(t, host, 3)

	require.NoError(t, host.StopListener())
	assert.False(t, host.ListenerReady())
	assert.Nil(t, host.ListenAddr())

	// 端口已释放
	udp, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	_ = udp.Close()

	// 重复停止无副作用
	assert.NoError(t, host.StopListener())
}

// TestTransport_ConfigureWhileListening 测试监听中修改端口
func TestTransport_ConfigureWhileListening(t *testing.T) {
	host, _ := newTestTransport(t)
	startTestHost(t, host, 3)

	err := host.Configure(pkgif.TransportSettings{BindAddress: "127.0.0.1", Port: 1, MaxConnections: 3})
	assert.ErrorIs(t, err, transport.ErrInvalidConfig)

	assert.ErrorIs(t, host.StartListener(context.Background()), transport.ErrAlreadyListening)
}

// TestTransport_Closed 测试关闭后的调用
func TestTransport_Closed(t *testing.T) {
	tr, _ := newTestTransport(t)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	assert.ErrorIs(t, tr.StartListener(context.Background()), transport.ErrClosed)
	assert.ErrorIs(t, tr.StartClient(context.Background(), "127.0.0.1", 7777), transport.ErrClosed)
}

// TestResolveUDPAddr 地址解析受 ctx 约束
func TestResolveUDPAddr(t *testing.T) {
	addr, err := resolveUDPAddr(context.Background(), "127.0.0.1", 7777)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", addr.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	_, err = resolveUDPAddr(ctx, "lanlink-host.invalid", 7777)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	t.Log("✅ 地址解析可取消")
}

// TestStartClient_ResolveInBackground 主机名在后台解析，StopClient 可立即结束
func TestStartClient_ResolveInBackground(t *testing.T) {
	tr, _ := newTestTransport(t)

	assert.Error(t, tr.StartClient(context.Background(), "127.0.0.1", 0))

	require.NoError(t, tr.StartClient(context.Background(), "lanlink-host.invalid", 7777))
	assert.False(t, tr.ClientConnected())

	done := make(chan struct{})
	go func() {
		_ = tr.StopClient()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StopClient 未能取消解析")
	}

	t.Log("✅ 解析不阻塞 StartClient")
}
