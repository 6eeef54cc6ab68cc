package proxy

import "strings"

// Deny list for outbound destinations. Hostnames are lower-cased before
// matching. The prefix entries intentionally mirror the long-standing
// behavior of the relay: "172.2" is a coarse match that also covers
// 172.2.x.x and 172.2xx.x.x, and names are not resolved before checking.
// TODO: resolve the hostname and test the resulting IPs against proper
// net.IPNet ranges instead of string prefixes.
var (
	deniedHosts = map[string]struct{}{
		"localhost": {},
		"127.0.0.1": {},
		"0.0.0.0":   {},
		"::1":       {},
	}

	deniedPrefixes = []string{
		"192.168.",
		"10.",
		"172.16.",
		"172.17.",
		"172.18.",
		"172.19.",
		"172.2",
		"172.30.",
		"172.31.",
		"fc00:",
		"fe80:",
	}
)

// DeniedHost reports whether the hostname points at a private or
// loopback destination the relay must never reach. The check runs
// unconditionally server-side regardless of what the client already decided.
func DeniedHost(hostname string) bool {
	host := strings.ToLower(hostname)
	if _, ok := deniedHosts[host]; ok {
		return true
	}
	for _, prefix := range deniedPrefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return false
}
