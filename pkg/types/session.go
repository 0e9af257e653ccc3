package types

import (
	"net"
	"strconv"
	"time"
)

// SessionInfo 会话快照
//
// 每个进程只有一个会话；Role 在每次 Resolve 中只确定一次。
type SessionInfo struct {
	Role        Role
	State       State
	BoundPort   int
	MaxPeers    int
	BindAddress string

	// PublicAddress 对外展示的地址（可能为空）
	PublicAddress string

	// Candidate 成功连接的候选地址
	Candidate string
	// Attempt 成功连接的尝试序号（从 1 开始）
	Attempt int

	// FellBack 是否经过客户端失败回退为主机
	FellBack bool

	// Attempts 本次解析的全部连接尝试
	Attempts []ConnectionAttempt
}

// ConnectionAttempt 单次连接尝试
//
// 结果确定后不再修改，按值保存。
type ConnectionAttempt struct {
	Candidate string
	Port      int
	Index     int
	StartTime time.Time
	Deadline  time.Time
	Outcome   AttemptOutcome
	Err       error
}

// Address 返回 host:port 形式
func (a ConnectionAttempt) Address() string {
	return JoinHostPort(a.Candidate, a.Port)
}

// HostInfo 局域网发现返回的主机信息
type HostInfo struct {
	Addr string
	Port int
}

// Address 返回 host:port 形式
func (h HostInfo) Address() string {
	return JoinHostPort(h.Addr, h.Port)
}

// Notice 主机下发给客户端的提示消息
type Notice struct {
	Message   string
	Countdown time.Duration
}

// JoinHostPort 拼接地址与端口
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
