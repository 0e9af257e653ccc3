package mdns

import "errors"

var (
	// ErrNoHostFound 超时前没有发现主机
	ErrNoHostFound = errors.New("mdns: no host found")

	// ErrAlreadyAdvertising 服务已注册
	ErrAlreadyAdvertising = errors.New("mdns: already advertising")

	// ErrNoValidAddresses 没有可注册的 IPv4 地址
	ErrNoValidAddresses = errors.New("mdns: no valid addresses for advertisement")
)
