package mdns

import "time"

const (
	// DefaultServiceTag mDNS 服务标签
	DefaultServiceTag = "_lanlink._udp"

	// DefaultDomain mDNS 域
	DefaultDomain = "local."

	// queryRound 单轮查询时长
	queryRound = time.Second

	// txtInstance TXT 记录中的实例标识前缀
	txtInstance = "instance="

	// txtPort TXT 记录中的会话端口前缀
	txtPort = "port="
)
