package model

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned for tokens that are not a bare IPv4 host:port.
var ErrInvalidFormat = errors.New("invalid proxy format")

// ParseAddress validates a raw "ip:port" token.
// IPv6 literals contain more than one colon and are rejected here.
func ParseAddress(token string) (ProxyAddress, error) {
	if strings.Contains(token, "://") {
		return ProxyAddress{}, fmt.Errorf("%w: scheme not allowed in %q", ErrInvalidFormat, token)
	}
	if strings.Count(token, ":") != 1 {
		return ProxyAddress{}, fmt.Errorf("%w: expected exactly one ':' in %q", ErrInvalidFormat, token)
	}

	host, portStr, _ := strings.Cut(token, ":")
	if !isDottedQuad(host) {
		return ProxyAddress{}, fmt.Errorf("%w: bad IPv4 host %q", ErrInvalidFormat, host)
	}

	port, err := parsePort(portStr)
	if err != nil {
		return ProxyAddress{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return ProxyAddress{host: host, port: port, raw: token}, nil
}

// parsePort accepts plain decimal digits, zero padding included ("080" is 80).
// Signs and whitespace are rejected.
func parsePort(s string) (int, error) {
	if s == "" || !allDigits(s) {
		return 0, fmt.Errorf("bad port %q", s)
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad port %q: %w", s, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// isDottedQuad reports whether s is a four-octet IPv4 literal.
// netip rejects zone suffixes and zero-padded octets, since "010" reads
// as octal 8 to inet_aton but as 10 to most people.
func isDottedQuad(s string) bool {
	ip, err := netip.ParseAddr(s)
	return err == nil && ip.Is4()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
