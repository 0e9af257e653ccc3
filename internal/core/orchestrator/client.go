package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// clientPath 按顺序连接候选地址，失败时按配置回退为主机
func (o *Orchestrator) clientPath(ctx context.Context, candidates []string, port, hostPort int) error {
	err := o.connect(ctx, candidates, port)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	o.setState(types.StateFailed)
	if !o.cfg.Connect.AutoFallbackToHost {
		log.Warn("无法连接到主机", "candidates", len(candidates), "error", err)
		o.presenter.ShowStatus("Could not connect to host")
		return err
	}
	return o.fallback(ctx, hostPort, err)
}

// fallback 回退为主机，每个序列最多一次
func (o *Orchestrator) fallback(ctx context.Context, port int, cause error) error {
	o.mu.Lock()
	if o.info.FellBack {
		o.mu.Unlock()
		return cause
	}
	o.info.FellBack = true
	o.mu.Unlock()

	log.Warn("所有候选地址均失败，回退为主机", "port", port, "error", cause)
	o.metrics.ObserveFallback()
	o.setState(types.StateFallbackToHost)

	if err := o.hostPath(ctx, port); err != nil {
		return fmt.Errorf("fallback to host: %w", err)
	}
	return nil
}

// connect 依次尝试每个候选地址
func (o *Orchestrator) connect(ctx context.Context, candidates []string, port int) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}

	o.setRole(types.RoleClient)
	o.setState(types.StateStartingClient)
	o.presenter.ShowStatus("Connecting...")

	retries := o.cfg.Connect.RetryCount
	if retries < 1 {
		retries = 1
	}
	delay := o.cfg.Connect.RetryDelay.Duration()

	var lastErr error
	for _, candidate := range candidates {
		for i := 1; i <= retries; i++ {
			a := o.attempt(ctx, candidate, port, i)
			o.recordAttempt(a)

			switch a.Outcome {
			case types.OutcomeSucceeded:
				o.update(func(s *types.SessionInfo) {
					s.Candidate = candidate
					s.Attempt = i
					s.BoundPort = port
				})
				o.setState(types.StateConnected)
				o.presenter.HideStatus()
				log.Info("已连接到主机", "addr", candidate, "port", port, "attempt", i)
				return nil
			case types.OutcomeCanceled:
				return ctx.Err()
			}

			lastErr = a.Err
			log.Debug("连接尝试失败",
				"addr", candidate,
				"port", port,
				"attempt", i,
				"outcome", a.Outcome,
				"error", a.Err)

			// 同一候选的最后一次尝试之后不等待
			if i < retries {
				if err := o.sleep(ctx, delay); err != nil {
					return err
				}
			}
		}
	}
	return fmt.Errorf("%w: %d candidates: %w", ErrConnectFailed, len(candidates), lastErr)
}

// attempt 执行一次连接尝试
func (o *Orchestrator) attempt(ctx context.Context, candidate string, port, index int) types.ConnectionAttempt {
	timeout := o.cfg.Connect.Timeout.Duration()
	start := o.clock.Now()
	a := types.ConnectionAttempt{
		Candidate: candidate,
		Port:      port,
		Index:     index,
		StartTime: start,
		Deadline:  start.Add(timeout),
		Outcome:   types.OutcomePending,
	}
	a.Outcome, a.Err = o.dial(ctx, candidate, port, timeout)
	o.metrics.ObserveAttempt(a.Outcome)
	return a
}

// dial 启动客户端并轮询连接结果
func (o *Orchestrator) dial(ctx context.Context, addr string, port int, timeout time.Duration) (types.AttemptOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.OutcomeCanceled, err
	}
	if err := o.transport.StartClient(o.ctx, addr, port); err != nil {
		return types.OutcomeErrored, err
	}

	deadline := o.clock.Timer(timeout)
	defer deadline.Stop()
	poll := o.clock.Ticker(o.cfg.Connect.PollInterval.Duration())
	defer poll.Stop()

	for {
		if o.transport.ClientConnected() {
			return types.OutcomeSucceeded, nil
		}
		if err := o.transport.ClientError(); err != nil {
			_ = o.transport.StopClient()
			return types.OutcomeErrored, err
		}

		select {
		case <-ctx.Done():
			_ = o.transport.StopClient()
			return types.OutcomeCanceled, ctx.Err()
		case <-deadline.C:
			_ = o.transport.StopClient()
			return types.OutcomeTimedOut, fmt.Errorf("%w: %s after %s", ErrAttemptTimeout, types.JoinHostPort(addr, port), timeout)
		case <-poll.C:
		}
	}
}
