package manager

import (
	"context"
	"errors"
	"fmt"
	"proxycheck/internal/shared/logger"
	"proxycheck/internal/shared/types"
	"proxycheck/proxypool/model"
	"proxycheck/proxypool/ranker"
	"proxycheck/proxypool/storage"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoValidProxies 表示输入中没有任何格式正确的候选地址，运行提前结束。
	ErrNoValidProxies = errors.New("no valid proxies found in input file")
	// ErrNoWorkingProxies 表示完整运行后没有可用代理。它不是异常终止。
	ErrNoWorkingProxies = ranker.ErrNoResults
)

// Checker 是 Manager 依赖的批量验证能力，由 validator.Validator 实现。
type Checker interface {
	Validate(ctx context.Context, addrs []model.ProxyAddress) []model.WorkingProxy
}

// Report 汇总一次运行的结果。
type Report struct {
	RunID      string
	Loaded     int
	Working    int
	OutputPath string
	Elapsed    time.Duration
}

// Manager 串联“读取 -> 校验格式 -> 并发验证 -> 排序 -> 写出”的完整流程。
type Manager struct {
	cfg       *types.Config
	storage   storage.Storage
	validator Checker

	// OnLoaded, if set, is called with the candidate count before validation starts.
	OnLoaded func(count int)
}

// NewManager 创建一个新的 Manager。
func NewManager(cfg *types.Config, storage storage.Storage, validator Checker) *Manager {
	return &Manager{
		cfg:       cfg,
		storage:   storage,
		validator: validator,
	}
}

// LoadCandidates reads the input and keeps the well-formed, distinct addresses
// in input order. Malformed lines are dropped silently.
func (m *Manager) LoadCandidates() ([]model.ProxyAddress, error) {
	l := logger.WithComponent("ProxyPool/Manager")

	lines, err := m.storage.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(lines))
	candidates := make([]model.ProxyAddress, 0, len(lines))
	invalid, duplicate := 0, 0
	for _, line := range lines {
		addr, err := model.ParseAddress(line)
		if err != nil {
			invalid++
			l.Debug().Str("line", line).Err(err).Msg("Skipping malformed proxy line.")
			continue
		}
		if _, exists := seen[addr.String()]; exists {
			duplicate++
			continue
		}
		seen[addr.String()] = struct{}{}
		candidates = append(candidates, addr)
	}

	l.Info().Int("valid", len(candidates)).Int("invalid", invalid).Int("duplicate", duplicate).Msg("Input parsed.")
	return candidates, nil
}

// Run performs one full check. ErrNoValidProxies and ErrNoWorkingProxies are
// informational: the returned Report is still filled in and no file is written.
// Any other error is a configuration or I/O failure.
func (m *Manager) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New().String()
	l := logger.WithComponent("ProxyPool/Manager").With().Str("run_id", runID).Logger()
	start := time.Now()

	report := &Report{RunID: runID, OutputPath: m.cfg.OutputFile}

	candidates, err := m.LoadCandidates()
	if err != nil {
		return report, fmt.Errorf("failed to load proxies: %w", err)
	}
	report.Loaded = len(candidates)
	if len(candidates) == 0 {
		l.Info().Msg("No valid proxies in input, nothing to check.")
		return report, ErrNoValidProxies
	}

	if m.OnLoaded != nil {
		m.OnLoaded(len(candidates))
	}

	l.Info().Int("count", len(candidates)).Int("timeout_s", m.cfg.Timeout).Int("max_connections", m.cfg.MaxConnections).Msg("Starting check run...")
	working := m.validator.Validate(ctx, candidates)

	ranked, err := ranker.Rank(working)
	report.Working = len(ranked)
	report.Elapsed = time.Since(start)
	if err != nil {
		l.Info().Dur("elapsed", report.Elapsed).Msg("Check run finished without working proxies.")
		return report, err
	}

	if err := m.storage.Save(ranker.Lines(ranked)); err != nil {
		return report, err
	}

	l.Info().Int("working", report.Working).Dur("elapsed", report.Elapsed).Msg("Check run finished.")
	return report, nil
}
