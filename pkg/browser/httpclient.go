package browser

import (
	"net/http"
	"net/url"

	"github.com/botprobe/botprobe/pkg/duration"
)

// chromeHeaders are sent with plain HTTP probes so reachability checks look
// like the browser that will visit the site later.
var chromeHeaders = map[string]string{
	"Accept":             "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Sec-Ch-Ua":          `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
	"Sec-Ch-Ua-Mobile":   "?0",
	"Sec-Ch-Ua-Platform": `"Windows"`,
}

type profileTransport struct {
	base      http.RoundTripper
	userAgent string
	language  string
}

func (t *profileTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range chromeHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.language != "" && req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", t.language)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns a client presenting the same user agent and
// language as the browser sessions built from cfg.
func NewHTTPClient(cfg *Config) *http.Client {
	cfg = cfg.withDefaults()
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout: duration.HTTPProbing,
		Transport: &profileTransport{
			base:      transport,
			userAgent: cfg.UserAgent,
			language:  cfg.Locale,
		},
	}
}
