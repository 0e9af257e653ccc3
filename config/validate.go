package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 配置无效
//
// 所有配置校验错误都包装该错误，调用方可用 errors.Is 判断。
var ErrInvalidConfig = errors.New("config: invalid config")

// invalid 构造带字段说明的配置错误
func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

// ValidateAndFix 验证配置并修复可自动修复的问题
//
// 可修复的问题：
//   - 端口为 0 -> 使用默认端口
//   - 重试次数为 0 -> 至少尝试一次
//   - 发现模式为空 -> broadcast
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Session.Port == 0 {
		c.Session.Port = DefaultPort
	}
	if c.Connect.RetryCount == 0 {
		c.Connect.RetryCount = 1
	}
	if c.Discovery.Mode == "" {
		c.Discovery.Mode = DiscoveryModeBroadcast
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
