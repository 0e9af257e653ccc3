package types

import "time"

// ConnectedPeer 已连接的对端
//
// 传输层报告新连接时创建，断开或被驱逐时销毁。
type ConnectedPeer struct {
	ID       PeerID
	JoinTime time.Time

	// IsLocal 是否为主机自己的回环连接
	IsLocal bool

	RemoteAddr string
}
