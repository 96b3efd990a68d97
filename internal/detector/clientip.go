package detector

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers checked in order of trust.
var ipHeaders = []string{"CF-Connecting-IP", "X-Client-IP", "X-Forwarded-For"}

// ClientIP picks the originating client address for a request. Forwarded
// headers win over the socket address, and within X-Forwarded-For the first
// public address wins. Falls back to the bare RemoteAddr host.
func ClientIP(r *http.Request) string {
	for _, header := range ipHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		for _, candidate := range strings.Split(value, ",") {
			candidate = strings.TrimSpace(candidate)
			ip := net.ParseIP(candidate)
			if ip == nil {
				continue
			}
			if ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() {
				continue
			}
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
