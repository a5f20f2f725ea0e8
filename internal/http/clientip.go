package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientAddr extracts the client's network address for attempt tracking and
// rate limiting. The first X-Forwarded-For entry wins when present;
// trusting upstream proxy hygiene is the deployment's responsibility.
func ClientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
