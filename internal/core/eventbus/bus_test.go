package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-lanlink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBus_SubscribeEmit 测试基本订阅与发射
func TestBus_SubscribeEmit(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtPeerConnected))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(types.EvtPeerConnected))
	require.NoError(t, err)
	defer em.Close()

	evt := types.EvtPeerConnected{
		Peer:     types.ConnectedPeer{ID: "peer-1"},
		NumPeers: 1,
	}
	require.NoError(t, em.Emit(evt))

	select {
	case got := <-sub.Out():
		e, ok := got.(types.EvtPeerConnected)
		require.True(t, ok)
		assert.Equal(t, types.PeerID("peer-1"), e.Peer.ID)
		assert.Equal(t, 1, e.NumPeers)
	case <-time.After(time.Second):
		t.Fatal("未收到事件")
	}

	t.Log("✅ 订阅与发射测试通过")
}

// TestBus_InvalidTypes 测试非法事件类型
func TestBus_InvalidTypes(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = bus.Subscribe(types.EvtPeerConnected{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Emitter(types.EvtStateChanged{})
	assert.ErrorIs(t, err, ErrNonPointerType)
}

// TestEmitter_WrongType 测试发射错误类型
func TestEmitter_WrongType(t *testing.T) {
	bus := NewBus()
	em, err := bus.Emitter(new(types.EvtPeerConnected))
	require.NoError(t, err)

	err = em.Emit(types.EvtPeerDisconnected{})
	assert.ErrorIs(t, err, ErrWrongEventType)

	require.NoError(t, em.Close())
	assert.ErrorIs(t, em.Emit(types.EvtPeerConnected{}), ErrClosed)
}

// TestBus_Stateful 测试有状态发射器
func TestBus_Stateful(t *testing.T) {
	bus := NewBus()

	em, err := bus.Emitter(new(types.EvtStateChanged), Stateful())
	require.NoError(t, err)
	require.NoError(t, em.Emit(types.EvtStateChanged{To: types.StateConnected}))

	// 后来的订阅者收到最后一个事件
	sub, err := bus.Subscribe(new(types.EvtStateChanged))
	require.NoError(t, err)
	defer sub.Close()

	select {
	case got := <-sub.Out():
		assert.Equal(t, types.StateConnected, got.(types.EvtStateChanged).To)
	case <-time.After(time.Second):
		t.Fatal("未收到保留事件")
	}
}

// TestBus_SlowConsumerDrops 测试缓冲区满时丢弃而不阻塞
func TestBus_SlowConsumerDrops(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtNoticeReceived), BufSize(2))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(types.EvtNoticeReceived))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, em.Emit(types.EvtNoticeReceived{}))
	}
	assert.Len(t, sub.Out(), 2)
}

// TestSubscription_Close 测试关闭订阅
func TestSubscription_Close(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok, "关闭后通道应已关闭")

	em, err := bus.Emitter(new(types.EvtClientDisconnected))
	require.NoError(t, err)
	assert.NoError(t, em.Emit(types.EvtClientDisconnected{}))
}

// TestBus_Close 测试关闭总线
func TestBus_Close(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtPeerConnected))
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-sub.Out()
	assert.False(t, ok)

	_, err = bus.Subscribe(new(types.EvtPeerConnected))
	assert.ErrorIs(t, err, ErrClosed)
}

// TestBus_Concurrent 测试并发发射与订阅
func TestBus_Concurrent(t *testing.T) {
	bus := NewBus()
	em, err := bus.Emitter(new(types.EvtPeerDisconnected))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = em.Emit(types.EvtPeerDisconnected{})
			}
		}()
		go func() {
			defer wg.Done()
			sub, err := bus.Subscribe(new(types.EvtPeerDisconnected))
			if err != nil {
				return
			}
			_ = sub.Close()
		}()
	}
	wg.Wait()
}
