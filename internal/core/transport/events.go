package transport

import (
	"time"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// Emitters 传输事件发射器集合
//
// bus 为 nil 时所有方法都是空操作。
type Emitters struct {
	peerConnected      pkgif.Emitter
	peerDisconnected   pkgif.Emitter
	noticeReceived     pkgif.Emitter
	clientDisconnected pkgif.Emitter
}

// NewEmitters 在事件总线上登记传输事件
func NewEmitters(bus pkgif.EventBus) (*Emitters, error) {
	e := &Emitters{}
	if bus == nil {
		return e, nil
	}

	var err error
	if e.peerConnected, err = bus.Emitter(new(types.EvtPeerConnected)); err != nil {
		return nil, err
	}
	if e.peerDisconnected, err = bus.Emitter(new(types.EvtPeerDisconnected)); err != nil {
		return nil, err
	}
	if e.noticeReceived, err = bus.Emitter(new(types.EvtNoticeReceived)); err != nil {
		return nil, err
	}
	if e.clientDisconnected, err = bus.Emitter(new(types.EvtClientDisconnected)); err != nil {
		return nil, err
	}
	return e, nil
}

// PeerConnected 发布对端连接事件
func (e *Emitters) PeerConnected(peer types.ConnectedPeer, numPeers int) {
	emit(e.peerConnected, types.EvtPeerConnected{
		BaseEvent: types.NewBaseEvent("peer.connected"),
		Peer:      peer,
		NumPeers:  numPeers,
	})
}

// PeerDisconnected 发布对端断开事件
func (e *Emitters) PeerDisconnected(id types.PeerID, numPeers int, reason types.DisconnectReason) {
	emit(e.peerDisconnected, types.EvtPeerDisconnected{
		BaseEvent: types.NewBaseEvent("peer.disconnected"),
		PeerID:    id,
		NumPeers:  numPeers,
		Reason:    reason,
	})
}

// NoticeReceived 发布客户端收到提示事件
func (e *Emitters) NoticeReceived(message string, countdown time.Duration) {
	emit(e.noticeReceived, types.EvtNoticeReceived{
		BaseEvent: types.NewBaseEvent("client.notice"),
		Notice:    types.Notice{Message: message, Countdown: countdown},
	})
}

// ClientDisconnected 发布客户端被断开事件
func (e *Emitters) ClientDisconnected(reason types.DisconnectReason) {
	emit(e.clientDisconnected, types.EvtClientDisconnected{
		BaseEvent: types.NewBaseEvent("client.disconnected"),
		Reason:    reason,
	})
}

// Close 关闭全部发射器
func (e *Emitters) Close() error {
	var err error
	for _, em := range []pkgif.Emitter{e.peerConnected, e.peerDisconnected, e.noticeReceived, e.clientDisconnected} {
		if em != nil {
			err = multierr.Append(err, em.Close())
		}
	}
	return err
}

func emit(em pkgif.Emitter, evt interface{}) {
	if em == nil {
		return
	}
	if err := em.Emit(evt); err != nil {
		log.Debug("发布传输事件失败", "error", err)
	}
}
