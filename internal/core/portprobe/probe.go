package portprobe

import (
	"errors"
	"net"

	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var log = logger.Logger("core.portprobe")

var _ pkgif.PortProbe = (*Probe)(nil)

// errUnsupported 当前平台不支持枚举套接字
var errUnsupported = errors.New("portprobe: socket listing not supported")

// DefaultProcRoot 默认 proc 文件系统挂载点
const DefaultProcRoot = "/proc"

// Probe UDP 端口探测器
type Probe struct {
	procRoot string
}

// New 创建端口探测器
func New() *Probe {
	return &Probe{procRoot: DefaultProcRoot}
}

// NewWithProcRoot 使用指定的 proc 根目录创建探测器
func NewWithProcRoot(root string) *Probe {
	return &Probe{procRoot: root}
}

// IsPortInUse 端口上是否有活动的 UDP 套接字
func (p *Probe) IsPortInUse(port int) bool {
	if port <= 0 || port > 65535 {
		return false
	}

	ports, err := p.listUDPPorts()
	if err == nil {
		_, ok := ports[port]
		log.Debug("枚举 UDP 套接字", "port", port, "inUse", ok, "sockets", len(ports))
		return ok
	}

	inUse := bindProbe(port)
	log.Debug("绑定探测", "port", port, "inUse", inUse, "reason", err)
	return inUse
}

// bindProbe 尝试绑定端口，地址已被占用时返回 true
func bindProbe(port int) bool {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return isAddrInUse(err)
	}
	_ = conn.Close()
	return false
}
