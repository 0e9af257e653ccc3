package publicaddr

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// userAgent 请求头
const userAgent = "lanlink/1.0"

// queryHTTP 查询单个地址回显服务
func (r *Resolver) queryHTTP(ctx context.Context, service string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP 请求失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP 状态码: %d", resp.StatusCode)
	}

	// 限制读取大小
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ErrEmptyResponse
	}
	ip := net.ParseIP(text)
	if ip == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIP, text)
	}
	return ip.String(), nil
}
