package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers consulted in order. The first one carrying a valid address
// wins; RemoteAddr is the fallback for direct connections.
var trustedHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// FromRequest resolves the originating client address of r. Forwarded
// headers take precedence over the TCP peer address so deployments behind
// Cloudflare or a reverse proxy report the real client, not the proxy.
// An empty string means no candidate parsed as an IP.
func FromRequest(r *http.Request) string {
	for _, header := range trustedHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For accumulates one entry per hop; the client is the
		// first entry that parses.
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, as some test servers set it.
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize validates the candidate and returns its canonical text form, or
// an empty string for garbage.
func normalize(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	ip := net.ParseIP(candidate)
	if ip == nil {
		return ""
	}
	return ip.String()
}
