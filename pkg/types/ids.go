package types

// PeerID 连接对端标识
//
// 由传输层在连接建立时分配，仅在当前会话内唯一。
type PeerID string

// String 返回字符串表示
func (id PeerID) String() string {
	return string(id)
}

// ShortString 返回用于日志显示的短 ID
func (id PeerID) ShortString() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// IsEmpty 检查是否为空
func (id PeerID) IsEmpty() bool {
	return id == ""
}
