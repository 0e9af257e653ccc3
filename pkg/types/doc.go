// Package types 定义 lanlink 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 lanlink 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go      - PeerID
//   - enums.go    - Role, State, AttemptOutcome, DisconnectReason
//   - session.go  - SessionInfo, ConnectionAttempt, HostInfo, Notice
//   - peer.go     - ConnectedPeer
//   - events.go   - 事件总线上传递的事件类型
package types
