// Package ranker orders working proxies by latency and formats them for output.
package ranker

import (
	"errors"
	"proxycheck/proxypool/model"
	"sort"
)

// ErrNoResults is returned when there is nothing to rank.
var ErrNoResults = errors.New("no working proxies found")

// Rank returns a copy of proxies sorted fastest first.
// Equal latencies keep their input (discovery) order.
func Rank(proxies []model.WorkingProxy) ([]model.WorkingProxy, error) {
	if len(proxies) == 0 {
		return nil, ErrNoResults
	}
	ranked := make([]model.WorkingProxy, len(proxies))
	copy(ranked, proxies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Latency < ranked[j].Latency
	})
	return ranked, nil
}

// Format renders a proxy as "protocol://host:port".
func Format(p model.WorkingProxy) string {
	return p.Protocol.String() + "://" + p.Address.String()
}

// Lines formats every proxy in order.
func Lines(proxies []model.WorkingProxy) []string {
	lines := make([]string, 0, len(proxies))
	for _, p := range proxies {
		lines = append(lines, Format(p))
	}
	return lines
}
