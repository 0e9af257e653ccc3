package orchestrator

import "errors"

var (
	// ErrClosed 编排器已关闭
	ErrClosed = errors.New("orchestrator: closed")

	// ErrConnectFailed 所有候选地址均连接失败
	ErrConnectFailed = errors.New("orchestrator: could not connect")

	// ErrAttemptTimeout 单次连接尝试超时
	ErrAttemptTimeout = errors.New("orchestrator: connection attempt timed out")

	// ErrNoCandidates 候选列表为空
	ErrNoCandidates = errors.New("orchestrator: no candidates")

	// ErrHostStart 主机监听启动失败
	ErrHostStart = errors.New("orchestrator: could not start host")

	// ErrInvalidAddress 远端地址格式无效
	ErrInvalidAddress = errors.New("orchestrator: invalid address")

	// ErrLoopbackClient 主机加入自己的会话失败
	ErrLoopbackClient = errors.New("orchestrator: loopback client failed")
)
