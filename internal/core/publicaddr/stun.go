package publicaddr

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pion/stun"
)

// stunReadTimeout 单个 STUN 服务器的读超时上限
const stunReadTimeout = 3 * time.Second

// querySTUN 向 STUN 服务器发送 Binding 请求并返回映射地址
func (r *Resolver) querySTUN(ctx context.Context, server string) (string, error) {
	addr, err := net.ResolveUDPAddr("udp4", server)
	if err != nil {
		return "", fmt.Errorf("解析 STUN 服务器地址失败: %w", err)
	}

	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return "", fmt.Errorf("连接 STUN 服务器失败: %w", err)
	}
	defer conn.Close()

	// ctx 结束时立即解除阻塞
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	deadline := time.Now().Add(stunReadTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	req, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return "", fmt.Errorf("构造 STUN 请求失败: %w", err)
	}
	if _, err := req.WriteTo(conn); err != nil {
		return "", fmt.Errorf("发送 STUN 请求失败: %w", err)
	}

	buf := make([]byte, 1500)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("读取 STUN 响应失败: %w", err)
	}

	res := new(stun.Message)
	res.Raw = buf[:n]
	if err := res.Decode(); err != nil {
		return "", fmt.Errorf("解析 STUN 响应失败: %w", err)
	}
	if res.TransactionID != req.TransactionID {
		return "", fmt.Errorf("STUN 事务 ID 不匹配")
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err == nil {
		return xorAddr.IP.String(), nil
	}
	// 旧版 STUN 只有 MAPPED-ADDRESS
	var mapped stun.MappedAddress
	if err := mapped.GetFrom(res); err == nil {
		return mapped.IP.String(), nil
	}
	return "", ErrNoMappedAddress
}
