package config

import "time"

const (
	// DiscoveryModeBroadcast UDP 广播请求/响应
	DiscoveryModeBroadcast = "broadcast"

	// DiscoveryModeMDNS mDNS 服务发现
	DiscoveryModeMDNS = "mdns"

	// DefaultDiscoveryPort 默认发现端口
	DefaultDiscoveryPort = 47777
)

// DiscoveryConfig 局域网发现配置
//
// 发现是可选模式：确定性的候选地址列表始终是权威路径，
// 发现只在没有显式地址、端口空闲时作为角色判定的附加信号。
type DiscoveryConfig struct {
	// Enable 是否启用
	Enable bool `json:"enable"`

	// Mode 发现方式：broadcast 或 mdns
	Mode string `json:"mode"`

	// Port 广播模式使用的 UDP 端口
	Port int `json:"port"`

	// FindTimeout 角色判定时等待响应的时间
	FindTimeout Duration `json:"find_timeout"`

	// RequestInterval 查找期间重复发送请求的间隔
	RequestInterval Duration `json:"request_interval"`

	// ResponderRate 每个请求方每秒允许的响应数
	ResponderRate float64 `json:"responder_rate"`

	// ServiceTag mDNS 服务标签
	ServiceTag string `json:"service_tag,omitempty"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Enable:          false,
		Mode:            DiscoveryModeBroadcast,
		Port:            DefaultDiscoveryPort,
		FindTimeout:     Duration(1500 * time.Millisecond),
		RequestInterval: Duration(500 * time.Millisecond),
		ResponderRate:   4,
		ServiceTag:      "_lanlink._udp",
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	if !c.Enable {
		return nil
	}
	switch c.Mode {
	case DiscoveryModeBroadcast, DiscoveryModeMDNS:
	default:
		return invalid("discovery.mode", "unknown mode %q", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return invalid("discovery.port", "out of range: %d", c.Port)
	}
	if c.FindTimeout <= 0 {
		return invalid("discovery.find_timeout", "must be positive")
	}
	if c.RequestInterval <= 0 {
		return invalid("discovery.request_interval", "must be positive")
	}
	if c.ResponderRate <= 0 {
		return invalid("discovery.responder_rate", "must be positive")
	}
	return nil
}
