package http

import (
	"net/http"
	"strings"
)

// linkBuilder turns short codes into absolute short URLs. Without a
// configured base URL the scheme and host of the request are used.
type linkBuilder struct {
	baseURL    string
	trustProxy bool
}

func (b linkBuilder) shortURL(r *http.Request, shortCode string) string {
	base := strings.TrimRight(b.baseURL, "/")
	if base == "" {
		base = b.scheme(r) + "://" + r.Host
	}
	return base + "/" + shortCode
}

func (b linkBuilder) scheme(r *http.Request) string {
	if b.trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			return proto
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
