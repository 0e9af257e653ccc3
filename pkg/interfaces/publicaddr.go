package interfaces

import (
	"context"
	"time"
)

// PublicAddressResolver 公网地址解析
//
// 任何失败都返回 ("", false)，不返回错误。
type PublicAddressResolver interface {
	GetPublicAddress(ctx context.Context, timeout time.Duration) (string, bool)
}
