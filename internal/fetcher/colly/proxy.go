package collyfetcher

import (
	"fmt"
	"net/url"
	"strings"
)

// ProxyPool is an immutable round-robin list of forward proxies with a
// cursor. Rotation returns a new pool; the receiver is never modified.
type ProxyPool struct {
	proxies []*url.URL
	cursor  int
}

// NewProxyPool parses proxy URLs. Blank entries are ignored.
func NewProxyPool(raw []string) (ProxyPool, error) {
	proxies := make([]*url.URL, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		u, err := url.Parse(r)
		if err != nil {
			return ProxyPool{}, fmt.Errorf("parse proxy %q: %w", r, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return ProxyPool{}, fmt.Errorf("proxy %q must be an absolute URL", r)
		}
		proxies = append(proxies, u)
	}
	return ProxyPool{proxies: proxies}, nil
}

// Len reports the number of proxies in the pool.
func (p ProxyPool) Len() int {
	return len(p.proxies)
}

// Current returns the active proxy, or nil for an empty pool.
func (p ProxyPool) Current() *url.URL {
	if len(p.proxies) == 0 {
		return nil
	}
	return p.proxies[p.cursor%len(p.proxies)]
}

// Next returns the pool advanced to the following proxy, wrapping around.
func (p ProxyPool) Next() ProxyPool {
	if len(p.proxies) == 0 {
		return p
	}
	return ProxyPool{proxies: p.proxies, cursor: (p.cursor + 1) % len(p.proxies)}
}
