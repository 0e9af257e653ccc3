// Package metrics 会话指标
//
// 使用 Prometheus 收集连接尝试、状态变化、驱逐与公网地址查询的计数。
// 所有方法对 nil *Metrics 安全，未启用指标的组件可以直接传 nil。
//
// 使用示例：
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegisterer(reg))
//	m.ObserveAttempt(types.OutcomeSucceeded)
package metrics
