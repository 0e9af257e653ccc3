package transport

import (
	"fmt"
	"net/netip"

	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var log = logger.Logger("core.transport")

const (
	// DefaultPort 端口未指定时使用的会话端口
	DefaultPort = 7777

	// DefaultBindAddress 绑定地址未指定时使用
	DefaultBindAddress = "0.0.0.0"

	// OverflowHeadroom 硬上限在人数上限之外预留的名额
	OverflowHeadroom = 1
)

// Configurator 传输配置器
//
// 只负责把会话参数应用到传输上，不启动监听。
type Configurator struct {
	transport pkgif.Transport
}

// NewConfigurator 创建传输配置器
func NewConfigurator(t pkgif.Transport) *Configurator {
	return &Configurator{transport: t}
}

// Transport 返回被配置的传输
func (c *Configurator) Transport() pkgif.Transport {
	return c.transport
}

// Configure 校验并应用配置
//
// 规则：
//   - bindAddress 为空 -> 0.0.0.0
//   - port 为 0 -> 7777；非零端口原样使用
//   - 硬上限 = maxPeers + 1
//
// 重复调用相同参数是幂等的。
func (c *Configurator) Configure(bindAddress string, port, maxPeers int) error {
	settings, err := BuildSettings(bindAddress, port, maxPeers)
	if err != nil {
		return err
	}

	if c.transport.Settings() == settings {
		return nil
	}
	if err := c.transport.Configure(settings); err != nil {
		return fmt.Errorf("apply transport settings: %w", err)
	}

	log.Debug("传输已配置",
		"bind", settings.BindAddress,
		"port", settings.Port,
		"maxConnections", settings.MaxConnections)
	return nil
}

// BuildSettings 根据会话参数计算传输设置
func BuildSettings(bindAddress string, port, maxPeers int) (pkgif.TransportSettings, error) {
	if port < 0 || port > 65535 {
		return pkgif.TransportSettings{}, fmt.Errorf("%w: port out of range: %d", ErrInvalidConfig, port)
	}
	if maxPeers < 0 {
		return pkgif.TransportSettings{}, fmt.Errorf("%w: negative max peers: %d", ErrInvalidConfig, maxPeers)
	}
	if bindAddress == "" {
		bindAddress = DefaultBindAddress
	}
	if _, err := netip.ParseAddr(bindAddress); err != nil {
		return pkgif.TransportSettings{}, fmt.Errorf("%w: bind address %q: %v", ErrInvalidConfig, bindAddress, err)
	}
	if port == 0 {
		port = DefaultPort
	}

	return pkgif.TransportSettings{
		BindAddress:    bindAddress,
		Port:           port,
		MaxConnections: maxPeers + OverflowHeadroom,
	}, nil
}
