package ats

import (
	"context"
	"net"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// unknownSite collects requests whose URL has no usable host.
const unknownSite = "_"

// SiteLimiter rate-limits requests per registrable domain, so www.acme.ai
// and careers.acme.ai share one budget.
type SiteLimiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	every rate.Limit
	burst int
}

func NewSiteLimiter(reqPerSec float64, burst int) *SiteLimiter {
	return &SiteLimiter{
		sites: make(map[string]*rate.Limiter),
		every: rate.Limit(reqPerSec),
		burst: burst,
	}
}

// Wait blocks until a request to the site of raw is allowed.
func (l *SiteLimiter) Wait(ctx context.Context, raw string) error {
	return l.forSite(siteKey(raw)).Wait(ctx)
}

func (l *SiteLimiter) forSite(site string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.sites[site]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.sites[site] = lim
	}
	return lim
}

// siteKey returns the registrable domain of raw. IP addresses and hosts
// without a public suffix (localhost) are used as is.
func siteKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return unknownSite
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return unknownSite
	}

	if net.ParseIP(host) != nil {
		return host
	}

	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}
