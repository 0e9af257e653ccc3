package types

import "time"

// BaseEvent 基础事件
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              主机侧事件
// ============================================================================

// EvtPeerConnected 有对端连接到本机监听器
type EvtPeerConnected struct {
	BaseEvent
	Peer     ConnectedPeer
	NumPeers int
}

// EvtPeerDisconnected 对端断开
type EvtPeerDisconnected struct {
	BaseEvent
	PeerID   PeerID
	NumPeers int
	Reason   DisconnectReason
}

// ============================================================================
//                              客户端侧事件
// ============================================================================

// EvtNoticeReceived 客户端收到主机下发的提示
type EvtNoticeReceived struct {
	BaseEvent
	Notice Notice
}

// EvtClientDisconnected 本地客户端连接被关闭
type EvtClientDisconnected struct {
	BaseEvent
	Reason DisconnectReason
}

// ============================================================================
//                              编排器事件
// ============================================================================

// EvtStateChanged 编排器状态变化
type EvtStateChanged struct {
	BaseEvent
	From State
	To   State
	Role Role
}

// EvtPublicAddress 公网地址解析完成
type EvtPublicAddress struct {
	BaseEvent
	Address string
	Found   bool
}
