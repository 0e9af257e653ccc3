package mem

import (
	"net/netip"
	"sync"
	"time"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var _ pkgif.PortProbe = (*Network)(nil)

// Network 进程内网络
type Network struct {
	mu        sync.Mutex
	listeners map[int]*Transport
	addresses map[string]struct{}

	// dialDelay 每次连接前的模拟延迟
	dialDelay time.Duration
}

// NewNetwork 创建进程内网络
func NewNetwork() *Network {
	return &Network{
		listeners: make(map[int]*Transport),
		addresses: make(map[string]struct{}),
	}
}

// AddAddress 将地址标记为可达
func (n *Network) AddAddress(addr string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.addresses[addr] = struct{}{}
}

// SetDialDelay 设置连接延迟
func (n *Network) SetDialDelay(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dialDelay = d
}

// IsPortInUse 端口上是否有监听器
func (n *Network) IsPortInUse(port int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.listeners[port]
	return ok
}

func (n *Network) reachable(addr string) bool {
	if ip, err := netip.ParseAddr(addr); err == nil && ip.IsLoopback() {
		return true
	}
	if addr == "localhost" {
		return true
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.addresses[addr]
	return ok
}

func (n *Network) bind(port int, t *Transport) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[port]; ok {
		return false
	}
	n.listeners[port] = t
	return true
}

func (n *Network) unbind(port int, t *Transport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners[port] == t {
		delete(n.listeners, port)
	}
}

func (n *Network) lookup(port int) (*Transport, time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listeners[port], n.dialDelay
}
