package publicaddr

import "errors"

var (
	// ErrInvalidIP 服务返回的不是 IP 地址
	ErrInvalidIP = errors.New("publicaddr: invalid IP address returned")

	// ErrEmptyResponse 服务返回空内容
	ErrEmptyResponse = errors.New("publicaddr: empty response")

	// ErrNoMappedAddress STUN 响应中没有映射地址
	ErrNoMappedAddress = errors.New("publicaddr: no mapped address in STUN response")

	// ErrAllSourcesFailed 所有来源都失败
	ErrAllSourcesFailed = errors.New("publicaddr: all sources failed")
)
