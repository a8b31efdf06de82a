// Package testproxy provides in-process proxy servers for tests.
package testproxy

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// NewEchoTarget starts an HTTP server that answers every request with 200
// and a small JSON body, like httpbin's /ip.
func NewEchoTarget(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "{\"origin\": %q}\n", host)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewHTTPProxy starts a forward proxy that answers absolute-URI requests
// itself with the given status after delay. Non-proxy requests get 400.
// It returns the proxy's "127.0.0.1:port" address.
func NewHTTPProxy(t testing.TB, delay time.Duration, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.IsAbs() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		w.WriteHeader(status)
		io.WriteString(w, "{\"origin\": \"127.0.0.1\"}\n")
	}))
	t.Cleanup(srv.Close)
	return srv.Listener.Addr().String()
}

// NewSOCKS5 starts a no-auth SOCKS5 server supporting CONNECT.
func NewSOCKS5(t testing.TB) string {
	return serve(t, handleSOCKS5)
}

// NewSOCKS4 starts a SOCKS4 server supporting CONNECT to IPv4 destinations.
func NewSOCKS4(t testing.TB) string {
	return serve(t, handleSOCKS4)
}

// NewBlackhole accepts connections and never answers, so clients time out.
func NewBlackhole(t testing.TB) string {
	return serve(t, func(conn net.Conn) {
		io.Copy(io.Discard, conn)
	})
}

// ClosedAddr returns a loopback address with nothing listening on it.
func ClosedAddr(t testing.TB) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func serve(t testing.TB, handle func(net.Conn)) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	conns := make(map[net.Conn]struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns[conn] = struct{}{}
			mu.Unlock()

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					mu.Lock()
					delete(conns, conn)
					mu.Unlock()
					conn.Close()
				}()
				handle(conn)
			}()
		}
	}()

	t.Cleanup(func() {
		listener.Close()
		mu.Lock()
		for c := range conns {
			c.Close()
		}
		mu.Unlock()
		wg.Wait()
	})
	return listener.Addr().String()
}

func handleSOCKS5(conn net.Conn) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(conn, header); err != nil || header[0] != 0x05 {
		return
	}
	methods := make([]byte, int(header[1]))
	if _, err := io.ReadFull(conn, methods); err != nil {
		return
	}
	if _, err := conn.Write([]byte{0x05, 0x00}); err != nil {
		return
	}

	req := make([]byte, 4)
	if _, err := io.ReadFull(conn, req); err != nil || req[0] != 0x05 || req[1] != 0x01 {
		return
	}

	var host string
	switch req[3] {
	case 0x01:
		ip := make([]byte, 4)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return
		}
		host = net.IP(ip).String()
	case 0x03:
		n := make([]byte, 1)
		if _, err := io.ReadFull(conn, n); err != nil {
			return
		}
		name := make([]byte, int(n[0]))
		if _, err := io.ReadFull(conn, name); err != nil {
			return
		}
		host = string(name)
	case 0x04:
		ip := make([]byte, 16)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return
		}
		host = net.IP(ip).String()
	default:
		return
	}
	portBuf := make([]byte, 2)
	if _, err := io.ReadFull(conn, portBuf); err != nil {
		return
	}
	target := net.JoinHostPort(host, strconv.Itoa(int(binary.BigEndian.Uint16(portBuf))))

	upstream, err := net.DialTimeout("tcp", target, 5*time.Second)
	if err != nil {
		conn.Write([]byte{0x05, 0x05, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		return
	}
	defer upstream.Close()

	if _, err := conn.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}); err != nil {
		return
	}
	pipe(conn, upstream)
}

func handleSOCKS4(conn net.Conn) {
	req := make([]byte, 8)
	// Check the version byte alone so other protocols are dropped at once.
	if _, err := io.ReadFull(conn, req[:1]); err != nil || req[0] != 0x04 {
		return
	}
	if _, err := io.ReadFull(conn, req[1:]); err != nil || req[1] != 0x01 {
		return
	}
	// user id, NUL terminated
	b := make([]byte, 1)
	for {
		if _, err := io.ReadFull(conn, b); err != nil {
			return
		}
		if b[0] == 0 {
			break
		}
	}

	port := binary.BigEndian.Uint16(req[2:4])
	target := net.JoinHostPort(net.IP(req[4:8]).String(), strconv.Itoa(int(port)))

	upstream, err := net.DialTimeout("tcp", target, 5*time.Second)
	if err != nil {
		conn.Write([]byte{0x00, 0x5B, 0, 0, 0, 0, 0, 0})
		return
	}
	defer upstream.Close()

	if _, err := conn.Write([]byte{0x00, 0x5A, 0, 0, 0, 0, 0, 0}); err != nil {
		return
	}
	pipe(conn, upstream)
}

// pipe copies in both directions until either side stops.
func pipe(a, b net.Conn) {
	done := make(chan struct{}, 2)
	go func() {
		io.Copy(a, b)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(b, a)
		done <- struct{}{}
	}()
	<-done
}
