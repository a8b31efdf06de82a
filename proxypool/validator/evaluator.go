package validator

import (
	"context"
	"proxycheck/internal/shared/logger"
	"proxycheck/proxypool/model"
)

// Evaluator 对单个地址按固定优先级依次尝试各协议，首个成功即停止。
type Evaluator struct {
	probers []Prober
}

// NewEvaluator returns an evaluator using HTTP, then SOCKS5, then SOCKS4.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithProbers(DefaultProbers()...)
}

// NewEvaluatorWithProbers builds an evaluator that tries probers in the given order.
func NewEvaluatorWithProbers(probers ...Prober) *Evaluator {
	return &Evaluator{probers: probers}
}

// Evaluate returns the first protocol that works for the job's address.
// ok is false when every prober failed.
func (e *Evaluator) Evaluate(ctx context.Context, job model.EvaluationJob) (model.WorkingProxy, bool) {
	l := logger.WithComponent("ProxyPool/Evaluator")

	for _, p := range e.probers {
		if ctx.Err() != nil {
			return model.WorkingProxy{}, false
		}

		outcome := model.ProbeOutcome{Protocol: p.Protocol()}
		elapsed, err := p.Probe(ctx, job.Address, job.Settings)
		if err == nil {
			outcome.Success = true
			outcome.Elapsed = elapsed
		}

		if !outcome.Success {
			l.Debug().Str("proxy", job.Address.String()).Str("protocol", outcome.Protocol.String()).Err(err).Msg("Probe failed.")
			continue
		}

		l.Debug().Str("proxy", job.Address.String()).Str("protocol", outcome.Protocol.String()).Dur("latency", outcome.Elapsed).Msg("Probe succeeded.")
		return model.WorkingProxy{
			Address:  job.Address,
			Protocol: outcome.Protocol,
			Latency:  outcome.Elapsed,
		}, true
	}

	return model.WorkingProxy{}, false
}
