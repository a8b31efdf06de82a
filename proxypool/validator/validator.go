package validator

import (
	"context"
	"proxycheck/internal/shared/logger"
	"proxycheck/proxypool/model"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const defaultConcurrency = 100

// AddressEvaluator 是调度器依赖的单地址评估能力，便于测试替换。
type AddressEvaluator interface {
	Evaluate(ctx context.Context, job model.EvaluationJob) (model.WorkingProxy, bool)
}

// Validator 在并发上限内评估一批地址并收集可用代理。
type Validator struct {
	settings    *model.ProbeSettings
	concurrency int
	evaluator   AddressEvaluator

	// OnProgress, if set, is called once per finished address with the
	// number done so far. Calls are serialized.
	OnProgress func(done, total int)
}

// NewValidator returns a Validator backed by the default protocol probers.
func NewValidator(timeout time.Duration, concurrency int, testURL string) *Validator {
	return NewValidatorWithEvaluator(NewEvaluator(), &model.ProbeSettings{
		Timeout: timeout,
		TestURL: testURL,
	}, concurrency)
}

// NewValidatorWithEvaluator is NewValidator with a custom evaluator.
func NewValidatorWithEvaluator(ev AddressEvaluator, settings *model.ProbeSettings, concurrency int) *Validator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Validator{
		settings:    settings,
		concurrency: concurrency,
		evaluator:   ev,
	}
}

type evaluation struct {
	proxy model.WorkingProxy
	ok    bool
}

// Validate evaluates every address with at most v.concurrency evaluations in
// flight and returns the working proxies in completion order.
// Cancelling ctx stops admission of further addresses.
func (v *Validator) Validate(ctx context.Context, addrs []model.ProxyAddress) []model.WorkingProxy {
	l := logger.WithComponent("ProxyPool/Validator")
	if len(addrs) == 0 {
		return nil
	}

	l.Info().Int("count", len(addrs)).Int("concurrency", v.concurrency).Msg("Starting validation batch...")

	total := len(addrs)
	resultsChan := make(chan evaluation, v.concurrency)
	collected := make(chan []model.WorkingProxy, 1)

	// 唯一的结果写入者
	go func() {
		var working []model.WorkingProxy
		done := 0
		for r := range resultsChan {
			done++
			if r.ok {
				working = append(working, r.proxy)
			}
			if v.OnProgress != nil {
				v.OnProgress(done, total)
			}
		}
		collected <- working
	}()

	var wg sync.WaitGroup
	gate := semaphore.NewWeighted(int64(v.concurrency))

	admitted := 0
	for _, addr := range addrs {
		if err := gate.Acquire(ctx, 1); err != nil {
			l.Warn().Err(err).Int("skipped", total-admitted).Msg("Validation interrupted, remaining proxies skipped.")
			break
		}
		admitted++

		wg.Add(1)
		go func(job model.EvaluationJob) {
			defer wg.Done()
			defer gate.Release(1)

			wp, ok := v.evaluator.Evaluate(ctx, job)
			resultsChan <- evaluation{proxy: wp, ok: ok}
		}(model.EvaluationJob{Address: addr, Settings: v.settings})
	}

	wg.Wait()
	close(resultsChan)
	working := <-collected

	l.Info().Int("checked", admitted).Int("working", len(working)).Msg("Validation batch finished.")
	return working
}
