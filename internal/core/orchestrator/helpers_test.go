package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/internal/core/transport/mem"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
	"github.com/dep2p/go-lanlink/pkg/types"
)

const testLAN = "192.168.1.10"

// testConfig 缩短所有等待以加快测试
func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Connect.Timeout = config.Duration(80 * time.Millisecond)
	cfg.Connect.RetryCount = 3
	cfg.Connect.RetryDelay = config.Duration(10 * time.Millisecond)
	cfg.Connect.PollInterval = config.Duration(5 * time.Millisecond)
	cfg.Connect.HostReadyTimeout = config.Duration(100 * time.Millisecond)
	cfg.Connect.HostReadyPollInterval = config.Duration(5 * time.Millisecond)
	cfg.PublicAddress.AutoDetect = false
	return cfg
}

type recordingPresenter struct {
	mu        sync.Mutex
	statuses  []string
	hostCodes []string
}

func (p *recordingPresenter) ShowStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, text)
}

func (p *recordingPresenter) ShowCountdown(string, time.Duration) {}

func (p *recordingPresenter) ShowHostCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hostCodes = append(p.hostCodes, code)
}

func (p *recordingPresenter) HideStatus() {}

func (p *recordingPresenter) HostCodes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.hostCodes...)
}

func (p *recordingPresenter) Statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.statuses...)
}

type fakeResolver struct {
	addr string
	ok   bool
}

func (r *fakeResolver) GetPublicAddress(context.Context, time.Duration) (string, bool) {
	return r.addr, r.ok
}

type fakeDiscovery struct {
	mu         sync.Mutex
	host       types.HostInfo
	found      bool
	advertised []int
}

func (d *fakeDiscovery) Advertise(_ context.Context, port int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advertised = append(d.advertised, port)
	return nil
}

func (d *fakeDiscovery) Find(ctx context.Context) (types.HostInfo, error) {
	if d.found {
		return d.host, nil
	}
	<-ctx.Done()
	return types.HostInfo{}, ctx.Err()
}

func (d *fakeDiscovery) Close() error { return nil }

func (d *fakeDiscovery) Advertised() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.advertised...)
}

// stateRecorder 收集状态变化
type stateRecorder struct {
	mu     sync.Mutex
	states []types.State
	done   chan struct{}
}

func recordStates(t *testing.T, bus pkgif.EventBus) *stateRecorder {
	t.Helper()
	sub, err := bus.Subscribe(new(types.EvtStateChanged), pkgif.BufSize(64))
	require.NoError(t, err)

	r := &stateRecorder{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for e := range sub.Out() {
			r.mu.Lock()
			r.states = append(r.states, e.(types.EvtStateChanged).To)
			r.mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = sub.Close()
		<-r.done
	})
	return r
}

func (r *stateRecorder) States() []types.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.State(nil), r.states...)
}

func (r *stateRecorder) Count(s types.State) int {
	n := 0
	for _, st := range r.States() {
		if st == s {
			n++
		}
	}
	return n
}

type env struct {
	network   *mem.Network
	transport *mem.Transport
	bus       *eventbus.Bus
	presenter *recordingPresenter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	network := mem.NewNetwork()
	bus := eventbus.NewBus()
	tr, err := mem.New(network, bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return &env{network: network, transport: tr, bus: bus, presenter: &recordingPresenter{}}
}

func (e *env) newOrchestrator(t *testing.T, cfg *config.Config, opts ...Option) *Orchestrator {
	t.Helper()
	base := []Option{
		WithPortProbe(e.network),
		WithPresenter(e.presenter),
		WithLocalAddresses(func() []string { return []string{testLAN} }),
	}
	o, err := New(cfg, e.transport, e.bus, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

// startRemoteHost 在同一网络上启动另一个进程的主机
func (e *env) startRemoteHost(t *testing.T, port int) *mem.Transport {
	t.Helper()
	host, err := mem.New(e.network, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })
	require.NoError(t, host.Configure(pkgif.TransportSettings{
		BindAddress:    "0.0.0.0",
		Port:           port,
		MaxConnections: 3,
	}))
	require.NoError(t, host.StartListener(context.Background()))
	return host
}

// joinRemote 从另一个进程连接到本机主机
func (e *env) joinRemote(t *testing.T, port int) *mem.Transport {
	t.Helper()
	c, err := mem.New(e.network, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.StartClient(context.Background(), "127.0.0.1", port))
	require.Eventually(t, func() bool { return c.ClientConnected() || c.ClientError() != nil }, time.Second, 5*time.Millisecond)
	return c
}
