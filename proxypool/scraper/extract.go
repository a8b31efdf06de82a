package scraper

import (
	"net/netip"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// addressPattern matches an IPv4 quad or an optionally bracketed IPv6 literal,
// then ':' or '#', then up to five port digits.
var addressPattern = regexp.MustCompile(`(?P<ip>(?:\d{1,3}\.){3}\d{1,3}|\[?[0-9a-fA-F:]+\]?)[:#](?P<port>\d{1,5})`)

// ExtractLine returns every valid address found in one line of text.
// IPv4 addresses are rendered as "a.b.c.d:port" and IPv6 as "[addr]:port".
func ExtractLine(line string) []string {
	var found []string
	ipIdx := addressPattern.SubexpIndex("ip")
	portIdx := addressPattern.SubexpIndex("port")

	for _, m := range addressPattern.FindAllStringSubmatch(line, -1) {
		ip, err := netip.ParseAddr(strings.Trim(m[ipIdx], "[]"))
		if err != nil || ip.Zone() != "" {
			continue
		}
		port, err := strconv.Atoi(m[portIdx])
		if err != nil || port < 1 || port > 65535 {
			continue
		}
		found = append(found, netip.AddrPortFrom(ip, uint16(port)).String())
	}
	return found
}

// Extract returns the deduplicated, sorted set of addresses found in lines.
func Extract(lines []string) []string {
	set := make(map[string]struct{})
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, addr := range ExtractLine(line) {
			set[addr] = struct{}{}
		}
	}

	result := make([]string, 0, len(set))
	for addr := range set {
		result = append(result, addr)
	}
	sort.Strings(result)
	return result
}
