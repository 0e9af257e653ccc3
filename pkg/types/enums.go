package types

// ============================================================================
//                              Role - 会话角色
// ============================================================================

// Role 会话角色
type Role int

const (
	// RoleUnresolved 尚未确定角色
	RoleUnresolved Role = iota
	// RoleHost 主机：启动权威监听器
	RoleHost
	// RoleClient 客户端：向外连接主机
	RoleClient
)

// String 返回角色的字符串表示
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	default:
		return "unresolved"
	}
}

// ============================================================================
//                              State - 编排状态
// ============================================================================

// State 连接编排器状态
type State int

const (
	// StateIdle 空闲
	StateIdle State = iota
	// StateProbingRole 正在判定角色
	StateProbingRole
	// StateStartingHost 正在启动主机监听
	StateStartingHost
	// StateWaitingHostReady 等待主机监听就绪
	StateWaitingHostReady
	// StateStartingLoopbackClient 主机加入自己的会话
	StateStartingLoopbackClient
	// StateStartingClient 正在以客户端身份连接
	StateStartingClient
	// StateConnected 已连接（终态）
	StateConnected
	// StateFailed 连接失败（终态，除非启用回退）
	StateFailed
	// StateFallbackToHost 客户端失败后回退为主机
	StateFallbackToHost
	// StateStopped 被取消或显式停止
	StateStopped
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbingRole:
		return "probing-role"
	case StateStartingHost:
		return "starting-host"
	case StateWaitingHostReady:
		return "waiting-host-ready"
	case StateStartingLoopbackClient:
		return "starting-loopback-client"
	case StateStartingClient:
		return "starting-client"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateFallbackToHost:
		return "fallback-to-host"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsTerminal 是否为终态
func (s State) IsTerminal() bool {
	return s == StateConnected || s == StateFailed || s == StateStopped
}

// ============================================================================
//                              AttemptOutcome - 连接尝试结果
// ============================================================================

// AttemptOutcome 单次连接尝试的结果
type AttemptOutcome int

const (
	// OutcomePending 进行中
	OutcomePending AttemptOutcome = iota
	// OutcomeSucceeded 成功
	OutcomeSucceeded
	// OutcomeTimedOut 超时
	OutcomeTimedOut
	// OutcomeErrored 出错
	OutcomeErrored
	// OutcomeCanceled 被取消
	OutcomeCanceled
)

// String 返回结果的字符串表示
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeErrored:
		return "errored"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              DisconnectReason - 断开原因
// ============================================================================

// DisconnectReason 断开原因
//
// 数值会作为 QUIC 应用错误码发送给对端。
type DisconnectReason uint64

const (
	// DisconnectReasonUnknown 未知原因
	DisconnectReasonUnknown DisconnectReason = iota
	// DisconnectReasonGraceful 正常关闭
	DisconnectReasonGraceful
	// DisconnectReasonSessionFull 会话已满
	DisconnectReasonSessionFull
	// DisconnectReasonShutdown 本地关闭
	DisconnectReasonShutdown
	// DisconnectReasonError 连接错误
	DisconnectReasonError
)

// String 返回断开原因的字符串表示
func (r DisconnectReason) String() string {
	switch r {
	case DisconnectReasonGraceful:
		return "graceful"
	case DisconnectReasonSessionFull:
		return "session-full"
	case DisconnectReasonShutdown:
		return "shutdown"
	case DisconnectReasonError:
		return "error"
	default:
		return "unknown"
	}
}
