// Package config 提供 lanlink 的统一配置
//
// 本包采用与组件一一对应的配置拆分：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，带 Default*Config 与 Validate
//   - 支持从 JSON 加载，时长字段使用 "3s"/"800ms" 形式
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Session.MaxPeers = 4
//	cfg.Connect.AutoFallbackToHost = true
//
//	cfg, err := config.LoadFile("lanlink.json")
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 是 lanlink 的完整配置结构
//
// 这是进程级配置，不面向最终用户：
//   - Session: 绑定地址、端口、人数上限、显式远端地址
//   - Connect: 连接超时、重试、回退策略
//   - Admission: 满员驱逐提示与宽限期
//   - PublicAddress: 公网地址探测
//   - Discovery: 局域网发现（可选模式）
//   - Log: 日志级别与格式
type Config struct {
	// Session 会话配置
	Session SessionConfig `json:"session"`

	// Connect 连接编排配置
	Connect ConnectConfig `json:"connect"`

	// Admission 准入控制配置
	Admission AdmissionConfig `json:"admission"`

	// PublicAddress 公网地址探测配置
	PublicAddress PublicAddressConfig `json:"public_address"`

	// Discovery 局域网发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Session:       DefaultSessionConfig(),
		Connect:       DefaultConnectConfig(),
		Admission:     DefaultAdmissionConfig(),
		PublicAddress: DefaultPublicAddressConfig(),
		Discovery:     DefaultDiscoveryConfig(),
		Log:           DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Connect.Validate(); err != nil {
		return err
	}
	if err := c.Admission.Validate(); err != nil {
		return err
	}
	if err := c.PublicAddress.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "session": {"port": 7777, "max_peers": 2},
//	  "connect": {"timeout": "3s", "retry_count": 3, "auto_fallback_to_host": true}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Clone 返回配置副本
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cloned := *c
	cloned.PublicAddress.Services = append([]string(nil), c.PublicAddress.Services...)
	cloned.PublicAddress.STUNServers = append([]string(nil), c.PublicAddress.STUNServers...)
	return &cloned
}
