package lanlink

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 会话未启动
	ErrNotStarted = errors.New("session not started")

	// ErrAlreadyStarted 会话已启动
	ErrAlreadyStarted = errors.New("session already started")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")
)
