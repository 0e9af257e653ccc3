package relay

import "errors"

var (
	// ErrClosed 中继已关闭
	ErrClosed = errors.New("relay: closed")

	// ErrNotifyFailed 提示消息发送失败
	ErrNotifyFailed = errors.New("relay: notify failed")
)
