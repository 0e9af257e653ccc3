package lanlink

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-lanlink/config"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

// Option 会话配置选项函数
type Option func(*options) error

// TransportFactory 在事件总线就绪后创建传输层
type TransportFactory func(bus pkgif.EventBus) (pkgif.Transport, error)

// options 内部选项结构
type options struct {
	config *config.Config

	transport  TransportFactory
	probe      pkgif.PortProbe
	presenter  pkgif.Presenter
	registerer prometheus.Registerer

	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

// WithConfig 使用完整配置
//
// 配置会被复制，之后的选项在副本上修改。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		o.config = cfg.Clone()
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPort 设置会话端口
func WithPort(port int) Option {
	return func(o *options) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		o.config.Session.Port = port
		return nil
	}
}

// WithBindAddress 设置监听绑定地址
func WithBindAddress(addr string) Option {
	return func(o *options) error {
		o.config.Session.BindAddress = addr
		return nil
	}
}

// WithMaxPeers 设置人数上限
func WithMaxPeers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return fmt.Errorf("max peers must be at least 1, got %d", n)
		}
		o.config.Session.MaxPeers = n
		return nil
	}
}

// WithRemoteAddress 设置显式远端地址，跳过角色探测
func WithRemoteAddress(addr string) Option {
	return func(o *options) error {
		o.config.Session.ExplicitRemoteAddress = addr
		return nil
	}
}

// WithFallbackToHost 设置客户端失败后是否回退为主机
func WithFallbackToHost(enable bool) Option {
	return func(o *options) error {
		o.config.Connect.AutoFallbackToHost = enable
		return nil
	}
}

// WithConnectTimeout 设置单次连接尝试的超时与重试
func WithConnectTimeout(timeout time.Duration, retries int) Option {
	return func(o *options) error {
		if timeout <= 0 || retries < 1 {
			return fmt.Errorf("invalid connect timeout %v or retries %d", timeout, retries)
		}
		o.config.Connect.Timeout = config.Duration(timeout)
		o.config.Connect.RetryCount = retries
		return nil
	}
}

// WithDiscovery 启用局域网发现
//
// mode 为 config.DiscoveryModeBroadcast 或 config.DiscoveryModeMDNS。
func WithDiscovery(mode string) Option {
	return func(o *options) error {
		o.config.Discovery.Enable = true
		o.config.Discovery.Mode = mode
		return nil
	}
}

// WithPublicAddress 设置是否查询公网地址
func WithPublicAddress(enable bool) Option {
	return func(o *options) error {
		o.config.PublicAddress.AutoDetect = enable
		return nil
	}
}

// WithLogLevel 设置日志级别字符串与格式
func WithLogLevel(level, format string) Option {
	return func(o *options) error {
		o.config.Log.Level = level
		o.config.Log.Format = format
		return nil
	}
}

// WithTransport 使用自定义传输层（默认 QUIC）
func WithTransport(factory TransportFactory) Option {
	return func(o *options) error {
		o.transport = factory
		return nil
	}
}

// WithPortProbe 使用自定义端口探测
func WithPortProbe(p pkgif.PortProbe) Option {
	return func(o *options) error {
		o.probe = p
		return nil
	}
}

// WithPresenter 设置展示钩子（默认写日志）
func WithPresenter(p pkgif.Presenter) Option {
	return func(o *options) error {
		o.presenter = p
		return nil
	}
}

// WithRegisterer 把指标注册到指定的 Prometheus Registerer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithFxOptions 追加用户自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
