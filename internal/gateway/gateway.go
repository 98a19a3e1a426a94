package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/api/middleware"
	"github.com/smartlocalbusiness/backend/internal/infrastructure/observability"
)

// Options configures the gateway
type Options struct {
	// Routes maps a path prefix such as /user to an upstream base URL.
	// Entries with an empty URL are skipped.
	Routes          map[string]string
	UpstreamTimeout time.Duration
	AllowedOrigins  []string
	Metrics         *observability.Metrics

	// Limiter is optional; nil disables rate limiting
	Limiter      middleware.Limiter
	RateCapacity int
	RateFailOpen bool
	RoundTripper http.RoundTripper
}

type route struct {
	prefix string
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// Gateway strips a known path prefix and forwards the request to the
// matching upstream. It makes no authorization decision.
type Gateway struct {
	routes []route
	opts   Options
}

// New builds a gateway from the prefix table
func New(opts Options) (*Gateway, error) {
	transport := opts.RoundTripper
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = opts.UpstreamTimeout
		transport = t
	}

	g := &Gateway{opts: opts}
	for prefix, raw := range opts.Routes {
		if raw == "" {
			continue
		}
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid upstream URL for %s: %q", prefix, raw)
		}
		prefix = "/" + strings.Trim(prefix, "/")
		g.routes = append(g.routes, route{
			prefix: prefix,
			target: target,
			proxy:  newProxy(prefix, target, transport),
		})
	}
	if len(g.routes) == 0 {
		return nil, errors.New("gateway has no upstream routes")
	}

	// Longest prefix first so nested prefixes win
	sort.Slice(g.routes, func(i, j int) bool {
		return len(g.routes[i].prefix) > len(g.routes[j].prefix)
	})

	for _, rt := range g.routes {
		log.Info().Str("prefix", rt.prefix).Str("upstream", rt.target.String()).Msg("Gateway route registered")
	}
	return g, nil
}

func newProxy(prefix string, target *url.URL, transport http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			rest := strings.TrimPrefix(pr.In.URL.Path, prefix)
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = joinPath(target.Path, rest)
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		Transport:      transport,
		ModifyResponse: stripCORSHeaders,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			observability.LoggerFromContext(r.Context()).Error().Err(err).
				Str("upstream", target.Host).
				Str("path", r.URL.Path).
				Str("request_id", middleware.RequestIDFromContext(r.Context())).
				Msg("Upstream request failed")
			writeError(w, http.StatusBadGateway, "upstream service unavailable")
		},
	}
}

// stripCORSHeaders drops the upstream's CORS headers. The gateway's own
// CORS middleware has already written them and the proxy would otherwise
// append a second copy, which browsers reject.
func stripCORSHeaders(resp *http.Response) error {
	for key := range resp.Header {
		if strings.HasPrefix(key, "Access-Control-") {
			resp.Header.Del(key)
		}
	}

	vary := resp.Header.Values("Vary")
	resp.Header.Del("Vary")
	for _, v := range vary {
		if !strings.EqualFold(strings.TrimSpace(v), "Origin") {
			resp.Header.Add("Vary", v)
		}
	}
	return nil
}

func joinPath(base, rest string) string {
	if rest == "" {
		rest = "/"
	}
	if base == "" || base == "/" {
		return rest
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rest, "/")
}

// ServeHTTP dispatches on the first matching prefix
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range g.routes {
		if r.URL.Path == rt.prefix || strings.HasPrefix(r.URL.Path, rt.prefix+"/") {
			rt.proxy.ServeHTTP(w, r)
			return
		}
	}
	writeError(w, http.StatusNotFound, "route not found")
}

// Handler returns the gateway wrapped with its middleware chain
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})
	mux.Handle("/", g)

	var handler http.Handler = mux
	if g.opts.Limiter != nil {
		handler = middleware.RateLimit(g.opts.Limiter, g.opts.RateCapacity, g.opts.RateFailOpen)(handler)
	}
	handler = middleware.ObservabilityMiddleware(g.opts.Metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(g.opts.AllowedOrigins)(handler)
	return handler
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
		"data":    nil,
	})
}
