package model

import (
	"net"
	"strconv"
	"time"
)

// Protocol 是代理接受的连接协议。
type Protocol int

const (
	ProtocolHTTP Protocol = iota
	ProtocolSOCKS4
	ProtocolSOCKS5
)

// String returns the lowercase scheme used in output lines.
func (p Protocol) String() string {
	switch p {
	case ProtocolHTTP:
		return "http"
	case ProtocolSOCKS4:
		return "socks4"
	case ProtocolSOCKS5:
		return "socks5"
	default:
		return "unknown"
	}
}

// ProxyAddress 是一个已校验的候选代理地址。
// 字段不导出，只能通过 ParseAddress 构造，之后不可变。
type ProxyAddress struct {
	host string
	port int
	raw  string
}

// Host returns the IPv4 dotted quad.
func (a ProxyAddress) Host() string { return a.host }

// Port returns the numeric port, 1-65535.
func (a ProxyAddress) Port() int { return a.port }

// String 返回被接受的原始字符串（例如保留 "080" 这样的补零端口）。
// 去重以此字符串为准。
func (a ProxyAddress) String() string {
	return a.raw
}

// DialAddress 返回用于建立连接的规范形式 "host:port"。
func (a ProxyAddress) DialAddress() string {
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

// ProbeOutcome 是对一个地址按一种协议进行一次探测的结果。
type ProbeOutcome struct {
	Protocol Protocol
	Elapsed  time.Duration // 仅在 Success 为 true 时有意义
	Success  bool
}

// WorkingProxy 是至少有一种协议探测成功的代理。
type WorkingProxy struct {
	Address  ProxyAddress
	Protocol Protocol // 第一个成功的协议
	Latency  time.Duration
}

// ProbeSettings 是所有任务共享的只读探测参数。
type ProbeSettings struct {
	Timeout time.Duration
	TestURL string
}

// EvaluationJob 是调度器的最小工作单元。
type EvaluationJob struct {
	Address  ProxyAddress
	Settings *ProbeSettings
}
