package interfaces

import (
	"context"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// TransportSettings 传输层设置
type TransportSettings struct {
	// BindAddress 监听绑定地址
	BindAddress string

	// Port 会话端口
	Port int

	// MaxConnections 监听器同时接受的连接硬上限
	MaxConnections int
}

// Transport 会话传输接口
//
// 同一个传输实例可以同时持有一个监听器（主机侧）和一个客户端连接
// （主机加入自己的会话时两者并存）。
//
// 连接相关的变化通过事件总线发布：
//   - 主机侧：types.EvtPeerConnected / types.EvtPeerDisconnected
//   - 客户端侧：types.EvtNoticeReceived / types.EvtClientDisconnected
type Transport interface {
	// Configure 应用设置，不会开始监听
	Configure(settings TransportSettings) error

	// Settings 返回当前设置
	Settings() TransportSettings

	// StartListener 启动监听器
	StartListener(ctx context.Context) error

	// ListenerReady 监听器是否已就绪
	ListenerReady() bool

	// StopListener 停止监听器并断开所有对端
	StopListener() error

	// StartClient 开始连接 addr:port
	//
	// 立即返回；连接结果通过 ClientConnected / ClientError 轮询。
	StartClient(ctx context.Context, addr string, port int) error

	// ClientConnected 客户端是否已连接
	ClientConnected() bool

	// ClientError 客户端连接失败的原因（进行中或成功时为 nil）
	ClientError() error

	// StopClient 停止客户端
	StopClient() error

	// Peers 返回监听器上已连接的对端
	Peers() []types.ConnectedPeer

	// Notify 向对端发送提示
	Notify(peer types.PeerID, notice types.Notice) error

	// Disconnect 断开对端
	//
	// 对端已离开时返回 ErrPeerNotFound 类错误，调用方可忽略。
	Disconnect(peer types.PeerID, reason types.DisconnectReason) error

	// Close 关闭传输，释放全部资源
	Close() error
}
