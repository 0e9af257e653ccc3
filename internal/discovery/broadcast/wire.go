package broadcast

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const (
	// RequestToken 发现请求
	RequestToken = "DISCOVERY_REQUEST_v1"

	// ResponsePrefix 发现响应前缀
	ResponsePrefix = "HOST_v1|"

	// maxDatagram 读取缓冲区大小
	maxDatagram = 512
)

var (
	// ErrMalformedResponse 响应格式错误
	ErrMalformedResponse = errors.New("broadcast: malformed response")

	// ErrNoHostFound 超时前没有主机响应
	ErrNoHostFound = errors.New("broadcast: no host found")
)

// EncodeRequest 编码发现请求
func EncodeRequest() []byte {
	return []byte(RequestToken)
}

// IsRequest 是否为发现请求
func IsRequest(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte(RequestToken))
}

// EncodeResponse 编码发现响应
func EncodeResponse(port int) []byte {
	return []byte(ResponsePrefix + strconv.Itoa(port))
}

// ParseResponse 解析发现响应，返回会话端口
func ParseResponse(b []byte) (int, error) {
	b = bytes.TrimSpace(b)
	if !bytes.HasPrefix(b, []byte(ResponsePrefix)) {
		return 0, ErrMalformedResponse
	}
	digits := b[len(ResponsePrefix):]
	if len(digits) == 0 || len(digits) > 5 {
		return 0, ErrMalformedResponse
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, ErrMalformedResponse
		}
	}
	port, err := strconv.Atoi(string(digits))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: port %q", ErrMalformedResponse, digits)
	}
	return port, nil
}
