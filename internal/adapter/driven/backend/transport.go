package backend

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
)

// userAgentRoundTripper adds a fixed User-Agent to every outgoing request.
type userAgentRoundTripper struct {
	Wrapped   http.RoundTripper
	UserAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone request to avoid mutating the original
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.UserAgent)
	return rt.Wrapped.RoundTrip(clone)
}

// newHTTPClient builds the transport stack used for every backend call:
//  1. base transport (http.DefaultTransport unless overridden)
//  2. httpcache (optional; ETag/Cache-Control caching of GET responses)
//  3. User-Agent stamping
//
// Credentials are not attached here. The pipeline attaches them per attempt
// so it knows which token each attempt carried.
func newHTTPClient(base http.RoundTripper, enableCache bool, timeout time.Duration) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	rt := base
	if enableCache {
		cache := httpcache.NewMemoryCacheTransport()
		cache.Transport = base
		cache.MarkCachedResponses = true
		rt = cache
	}

	return &http.Client{
		Transport: &userAgentRoundTripper{Wrapped: rt, UserAgent: userAgent},
		Timeout:   timeout,
	}
}
