package config

import "time"

// ConnectConfig 连接编排配置
type ConnectConfig struct {
	// Timeout 单次连接尝试超时
	Timeout Duration `json:"timeout"`

	// RetryCount 每个候选地址的尝试次数
	RetryCount int `json:"retry_count"`

	// RetryDelay 两次尝试之间的等待
	RetryDelay Duration `json:"retry_delay"`

	// PollInterval 连接状态轮询间隔
	PollInterval Duration `json:"poll_interval"`

	// HostReadyTimeout 等待监听就绪的最长时间
	HostReadyTimeout Duration `json:"host_ready_timeout"`

	// HostReadyPollInterval 监听就绪轮询间隔
	HostReadyPollInterval Duration `json:"host_ready_poll_interval"`

	// AutoFallbackToHost 所有候选失败后回退为主机（仅一次）
	AutoFallbackToHost bool `json:"auto_fallback_to_host"`

	// AutoStartLocalClient 端口已被占用时以回环客户端加入
	AutoStartLocalClient bool `json:"auto_start_local_client"`
}

// DefaultConnectConfig 返回默认连接配置
func DefaultConnectConfig() ConnectConfig {
	return ConnectConfig{
		Timeout:               Duration(3 * time.Second),
		RetryCount:            3,
		RetryDelay:            Duration(1 * time.Second),
		PollInterval:          Duration(100 * time.Millisecond),
		HostReadyTimeout:      Duration(3 * time.Second),
		HostReadyPollInterval: Duration(100 * time.Millisecond),
		AutoFallbackToHost:    false,
		AutoStartLocalClient:  true,
	}
}

// Validate 验证连接配置
func (c ConnectConfig) Validate() error {
	if c.Timeout <= 0 {
		return invalid("connect.timeout", "must be positive")
	}
	if c.RetryCount < 1 {
		return invalid("connect.retry_count", "must be at least 1, got %d", c.RetryCount)
	}
	if c.RetryDelay < 0 {
		return invalid("connect.retry_delay", "must not be negative")
	}
	if c.PollInterval <= 0 || c.PollInterval > c.Timeout {
		return invalid("connect.poll_interval", "must be in (0, timeout]")
	}
	if c.HostReadyTimeout <= 0 {
		return invalid("connect.host_ready_timeout", "must be positive")
	}
	if c.HostReadyPollInterval <= 0 {
		return invalid("connect.host_ready_poll_interval", "must be positive")
	}
	return nil
}
