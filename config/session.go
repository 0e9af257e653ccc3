package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

const (
	// DefaultPort 默认会话端口
	DefaultPort = 7777

	// DefaultMaxPeers 默认人数上限（包含主机自己的回环连接）
	DefaultMaxPeers = 2

	// DefaultBindAddress 默认绑定地址
	DefaultBindAddress = "0.0.0.0"
)

// SessionConfig 会话配置
type SessionConfig struct {
	// BindAddress 监听绑定地址
	BindAddress string `json:"bind_address"`

	// Port 会话端口，0 表示使用默认端口
	Port int `json:"port"`

	// MaxPeers 最大连接对端数量
	MaxPeers int `json:"max_peers"`

	// ExplicitRemoteAddress 显式远端地址
	//
	// 设置后跳过角色探测，直接以客户端身份连接该地址。
	ExplicitRemoteAddress string `json:"explicit_remote_address,omitempty"`
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		BindAddress: DefaultBindAddress,
		Port:        DefaultPort,
		MaxPeers:    DefaultMaxPeers,
	}
}

// Validate 验证会话配置
func (c SessionConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return invalid("session.port", "out of range: %d", c.Port)
	}
	if c.MaxPeers < 1 {
		return invalid("session.max_peers", "must be at least 1, got %d", c.MaxPeers)
	}
	if c.BindAddress != "" {
		if _, err := netip.ParseAddr(c.BindAddress); err != nil {
			return invalid("session.bind_address", "%v", err)
		}
	}
	if c.ExplicitRemoteAddress != "" {
		if err := ValidateRemoteAddress(c.ExplicitRemoteAddress); err != nil {
			return invalid("session.explicit_remote_address", "%v", err)
		}
	}
	return nil
}

// ValidateRemoteAddress 检查 host 或 host:port 形式的远端地址
//
// 主机不能为空；端口存在时必须在 1..65535。IPv6 带端口时需要方括号。
func ValidateRemoteAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("empty address")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		// 没有端口
		return validateRemoteHost(strings.Trim(addr, "[]"))
	}
	if host == "" {
		return fmt.Errorf("missing host in %q", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port %q in %q", portStr, addr)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}
	return validateRemoteHost(host)
}

func validateRemoteHost(host string) error {
	if host == "" {
		return errors.New("missing host")
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return nil
	}
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '_':
		default:
			return fmt.Errorf("invalid host %q", host)
		}
	}
	return nil
}

// EffectivePort 返回实际使用的端口
func (c SessionConfig) EffectivePort() int {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}
