package interfaces

import (
	"context"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// HostDiscovery 局域网主机发现
type HostDiscovery interface {
	// Advertise 在后台响应发现请求，直到 ctx 结束或 Close
	Advertise(ctx context.Context, port int) error

	// Find 查找一个正在主持会话的主机，受 ctx 限时
	Find(ctx context.Context) (types.HostInfo, error)

	// Close 停止广播并释放套接字
	Close() error
}
