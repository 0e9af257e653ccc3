package config

import "time"

// PublicAddressConfig 公网地址探测配置
type PublicAddressConfig struct {
	// AutoDetect 主机启动后异步探测公网地址用于展示
	AutoDetect bool `json:"auto_detect"`

	// Services HTTP 地址回显服务，按顺序尝试
	Services []string `json:"services,omitempty"`

	// STUNServers HTTP 全部失败后使用的 STUN 服务器
	STUNServers []string `json:"stun_servers,omitempty"`

	// Timeout 整体探测超时
	Timeout Duration `json:"timeout"`

	// CacheTTL 结果缓存时间
	CacheTTL Duration `json:"cache_ttl"`
}

// DefaultPublicAddressConfig 返回默认公网地址探测配置
func DefaultPublicAddressConfig() PublicAddressConfig {
	return PublicAddressConfig{
		AutoDetect: true,
		Services: []string{
			"https://api.ipify.org",
			"https://ifconfig.me/ip",
			"https://checkip.amazonaws.com",
		},
		STUNServers: []string{
			"stun.l.google.com:19302",
			"stun.cloudflare.com:3478",
		},
		Timeout:  Duration(5 * time.Second),
		CacheTTL: Duration(5 * time.Minute),
	}
}

// Validate 验证公网地址探测配置
func (c PublicAddressConfig) Validate() error {
	if c.AutoDetect && c.Timeout <= 0 {
		return invalid("public_address.timeout", "must be positive when auto_detect is enabled")
	}
	if c.CacheTTL < 0 {
		return invalid("public_address.cache_ttl", "must not be negative")
	}
	return nil
}
