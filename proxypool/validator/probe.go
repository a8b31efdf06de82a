package validator

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"proxycheck/proxypool/model"
	"time"

	"golang.org/x/net/proxy"
	"h12.io/socks"
)

// maxDrainBytes 限制成功响应体的读取量，避免慢速代理拖住连接。
const maxDrainBytes = 64 << 10

// Prober 按一种协议假设对代理做一次连通性测试。
// 任何失败（拒绝连接、超时、握手失败、非 200）都返回 error，调用方不区分原因。
type Prober interface {
	Protocol() model.Protocol
	Probe(ctx context.Context, addr model.ProxyAddress, settings *model.ProbeSettings) (time.Duration, error)
}

// DefaultProbers returns the probers in evaluation priority order.
func DefaultProbers() []Prober {
	return []Prober{
		&httpProber{},
		&socks5Prober{},
		&socks4Prober{},
	}
}

// httpProber routes the test request through the address as an HTTP forward proxy.
type httpProber struct{}

func (p *httpProber) Protocol() model.Protocol { return model.ProtocolHTTP }

func (p *httpProber) Probe(ctx context.Context, addr model.ProxyAddress, settings *model.ProbeSettings) (time.Duration, error) {
	proxyURL := &url.URL{Scheme: "http", Host: addr.DialAddress()}
	transport := newTransport(settings.Timeout)
	transport.Proxy = http.ProxyURL(proxyURL)
	return fetch(ctx, transport, settings)
}

// socks5Prober tunnels the test request through a SOCKS5 CONNECT.
type socks5Prober struct{}

func (p *socks5Prober) Protocol() model.Protocol { return model.ProtocolSOCKS5 }

func (p *socks5Prober) Probe(ctx context.Context, addr model.ProxyAddress, settings *model.ProbeSettings) (time.Duration, error) {
	dialer, err := proxy.SOCKS5("tcp", addr.DialAddress(), nil, &net.Dialer{Timeout: settings.Timeout})
	if err != nil {
		return 0, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return 0, fmt.Errorf("SOCKS5 dialer does not support contexts")
	}

	transport := newTransport(settings.Timeout)
	transport.DialContext = contextDialer.DialContext
	return fetch(ctx, transport, settings)
}

// socks4Prober tunnels the test request through a SOCKS4 CONNECT.
// SOCKS4 carries only IPv4 destinations, so the test host is resolved locally.
type socks4Prober struct{}

func (p *socks4Prober) Protocol() model.Protocol { return model.ProtocolSOCKS4 }

func (p *socks4Prober) Probe(ctx context.Context, addr model.ProxyAddress, settings *model.ProbeSettings) (time.Duration, error) {
	dial := socks.Dial(socks4URI(addr, settings.Timeout))

	transport := newTransport(settings.Timeout)
	transport.DialContext = func(ctx context.Context, network, target string) (net.Conn, error) {
		return dialWithContext(ctx, dial, network, target)
	}
	return fetch(ctx, transport, settings)
}

type dialResult struct {
	conn net.Conn
	err  error
}

// dialWithContext 让不支持 context 的 dial 函数可以被取消。
// 取消后仍在进行的 dial 会在后台完成，得到的连接随即被关闭。
func dialWithContext(ctx context.Context, dial func(network, addr string) (net.Conn, error), network, addr string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan dialResult, 1)
	go func() {
		conn, err := dial(network, addr)
		done <- dialResult{conn: conn, err: err}
	}()

	select {
	case res := <-done:
		return res.conn, res.err
	case <-ctx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func socks4URI(addr model.ProxyAddress, timeout time.Duration) string {
	u := url.URL{
		Scheme:   "socks4",
		Host:     addr.DialAddress(),
		RawQuery: url.Values{"timeout": []string{timeout.String()}}.Encode(),
	}
	return u.String()
}

// newTransport returns a single-use transport with keep-alives disabled.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: -1,
		}).DialContext,
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// fetch issues one GET of the test URL and succeeds only on HTTP 200.
// The returned duration covers everything up to the response status.
func fetch(ctx context.Context, transport *http.Transport, settings *model.ProbeSettings) (time.Duration, error) {
	defer transport.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	client := &http.Client{
		Transport: transport,
		Timeout:   settings.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, settings.TestURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}
	return elapsed, nil
}
