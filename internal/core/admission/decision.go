package admission

import "github.com/dep2p/go-lanlink/pkg/types"

// Action 驱逐动作
type Action int

const (
	// ActionAdmit 允许加入
	ActionAdmit Action = iota
	// ActionEvictLocal 本地倒计时后断开回环连接
	ActionEvictLocal
	// ActionEvictRemote 通知远端后断开
	ActionEvictRemote
)

// String 返回动作的字符串表示
func (a Action) String() string {
	switch a {
	case ActionAdmit:
		return "admit"
	case ActionEvictLocal:
		return "evict-local"
	case ActionEvictRemote:
		return "evict-remote"
	default:
		return "unknown"
	}
}

// Decision 单次检查的结果，不保存
type Decision struct {
	Peer     types.ConnectedPeer
	NumPeers int
	MaxPeers int
	Action   Action
}

// Overflow 是否超过上限
func (d Decision) Overflow() bool {
	return d.Action != ActionAdmit
}

// Decide 根据当前人数判断是否需要驱逐
func Decide(peer types.ConnectedPeer, numPeers, maxPeers int) Decision {
	d := Decision{Peer: peer, NumPeers: numPeers, MaxPeers: maxPeers}
	switch {
	case numPeers <= maxPeers:
		d.Action = ActionAdmit
	case peer.IsLocal:
		d.Action = ActionEvictLocal
	default:
		d.Action = ActionEvictRemote
	}
	return d
}
