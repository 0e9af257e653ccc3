package presenter

import (
	"sync"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// Bridge 把客户端侧事件转换为展示调用
//
// 被主机以会话已满为由踢出的客户端会先收到提示，显示倒计时；
// 连接被关闭时显示断开原因。
type Bridge struct {
	bus       pkgif.EventBus
	presenter pkgif.Presenter

	mu   sync.Mutex
	subs []pkgif.Subscription
	done chan struct{}
}

// NewBridge 创建事件桥
func NewBridge(bus pkgif.EventBus, p pkgif.Presenter) *Bridge {
	return &Bridge{bus: bus, presenter: p}
}

// Start 订阅客户端事件
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done != nil {
		return nil
	}

	notices, err := b.bus.Subscribe(new(types.EvtNoticeReceived))
	if err != nil {
		return err
	}
	closed, err := b.bus.Subscribe(new(types.EvtClientDisconnected))
	if err != nil {
		_ = notices.Close()
		return err
	}

	b.subs = []pkgif.Subscription{notices, closed}
	b.done = make(chan struct{})
	go b.loop(notices, closed, b.done)
	return nil
}

func (b *Bridge) loop(notices, closed pkgif.Subscription, done chan struct{}) {
	defer close(done)
	noticeCh, closedCh := notices.Out(), closed.Out()
	for noticeCh != nil || closedCh != nil {
		select {
		case e, ok := <-noticeCh:
			if !ok {
				noticeCh = nil
				continue
			}
			if evt, ok := e.(types.EvtNoticeReceived); ok {
				b.presenter.ShowCountdown(evt.Notice.Message, evt.Notice.Countdown)
			}
		case e, ok := <-closedCh:
			if !ok {
				closedCh = nil
				continue
			}
			if evt, ok := e.(types.EvtClientDisconnected); ok {
				b.presenter.ShowStatus("Disconnected from host: " + evt.Reason.String())
			}
		}
	}
}

// Stop 取消订阅
func (b *Bridge) Stop() {
	b.mu.Lock()
	subs, done := b.subs, b.done
	b.subs, b.done = nil, nil
	b.mu.Unlock()
	if done == nil {
		return
	}
	for _, s := range subs {
		_ = s.Close()
	}
	<-done
}
