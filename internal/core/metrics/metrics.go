package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-lanlink/internal/util/logger"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var log = logger.Logger("core.metrics")

const namespace = "lanlink"

// Metrics 会话指标集合
type Metrics struct {
	registry prometheus.Registerer

	attempts     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	state        prometheus.Gauge
	role         prometheus.Gauge
	peers        prometheus.Gauge
	evictions    *prometheus.CounterVec
	publicLookup *prometheus.CounterVec
	fallbacks    prometheus.Counter
}

// Option 指标选项
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer 指定注册器，默认使用新建的独立 Registry
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// New 创建并注册指标
func New(opts ...Option) *Metrics {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: o.registerer,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "connect_attempts_total",
			Help:      "Client connection attempts by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "state_transitions_total",
			Help:      "Orchestrator state transitions by target state.",
		}, []string{"state"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "state",
			Help:      "Current orchestrator state.",
		}),
		role: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "role",
			Help:      "Current session role (0 unresolved, 1 host, 2 client).",
		}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "connected_peers",
			Help:      "Peers connected to the local listener.",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "evictions_total",
			Help:      "Capacity evictions by kind.",
		}, []string{"kind"}),
		publicLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publicaddr",
			Name:      "lookups_total",
			Help:      "Public address lookups by result.",
		}, []string{"result"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "host_fallbacks_total",
			Help:      "Client failures that fell back to hosting.",
		}),
	}

	for _, c := range m.collectors() {
		if err := o.registerer.Register(c); err != nil {
			log.Warn("注册指标失败", "error", err)
		}
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.attempts, m.transitions, m.state, m.role,
		m.peers, m.evictions, m.publicLookup, m.fallbacks,
	}
}

// Unregister 从注册器移除全部指标
func (m *Metrics) Unregister() {
	if m == nil {
		return
	}
	for _, c := range m.collectors() {
		m.registry.Unregister(c)
	}
}

// ObserveAttempt 记录一次连接尝试结果
func (m *Metrics) ObserveAttempt(outcome types.AttemptOutcome) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome.String()).Inc()
}

// ObserveState 记录状态变化
func (m *Metrics) ObserveState(state types.State, role types.Role) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(state.String()).Inc()
	m.state.Set(float64(state))
	m.role.Set(float64(role))
}

// SetPeers 设置当前对端数量
func (m *Metrics) SetPeers(n int) {
	if m == nil {
		return
	}
	m.peers.Set(float64(n))
}

// EvictionKind 驱逐方式
type EvictionKind string

const (
	// EvictionLocal 本机回环连接，本地倒计时后断开
	EvictionLocal EvictionKind = "local"
	// EvictionNotified 通过驱逐钩子通知后断开
	EvictionNotified EvictionKind = "notified"
	// EvictionImmediate 驱逐钩子缺失或失败，立即断开
	EvictionImmediate EvictionKind = "immediate"
)

// ObserveEviction 记录一次驱逐
func (m *Metrics) ObserveEviction(kind EvictionKind) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(string(kind)).Inc()
}

// ObservePublicLookup 记录一次公网地址查询
func (m *Metrics) ObservePublicLookup(found bool) {
	if m == nil {
		return
	}
	result := "failed"
	if found {
		result = "found"
	}
	m.publicLookup.WithLabelValues(result).Inc()
}

// ObserveFallback 记录一次回退为主机
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}
