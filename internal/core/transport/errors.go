package transport

import "errors"

var (
	// ErrInvalidConfig 传输配置无效
	ErrInvalidConfig = errors.New("transport: invalid config")

	// ErrClosed 传输已关闭
	ErrClosed = errors.New("transport: closed")

	// ErrAlreadyListening 监听器已在运行
	ErrAlreadyListening = errors.New("transport: listener already running")

	// ErrNotListening 监听器未运行
	ErrNotListening = errors.New("transport: listener not running")

	// ErrClientActive 客户端已在连接或已连接
	ErrClientActive = errors.New("transport: client already active")

	// ErrPeerNotFound 对端不存在或已离开
	ErrPeerNotFound = errors.New("transport: peer not found")

	// ErrSessionFull 监听器已达到硬上限
	ErrSessionFull = errors.New("transport: session full")

	// ErrConnectionRefused 目标地址没有监听器
	ErrConnectionRefused = errors.New("transport: connection refused")

	// ErrClientDisconnected 客户端连接已被关闭
	ErrClientDisconnected = errors.New("transport: client disconnected")
)
