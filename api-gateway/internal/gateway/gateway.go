package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"budget-bites/middleware"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StateSvcURL   string
	CatalogSvcURL string
}

type Gateway struct {
	config   Config
	client   HTTPClient
	log      logrus.FieldLogger
	dialer   *websocket.Dialer
	upgrader websocket.Upgrader
}

func NewGateway(config Config, client HTTPClient, log logrus.FieldLogger) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		log:    log,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// hop-by-hop headers are not forwarded in either direction.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}

// forwardedFor appends the caller's address to any X-Forwarded-For chain it sent.
func forwardedFor(r *http.Request) string {
	host := middleware.RemoteHost(r)
	if prior := r.Header.Values("X-Forwarded-For"); len(prior) > 0 {
		return strings.Join(prior, ", ") + ", " + host
	}
	return host
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"target": targetURL,
	}).Debug("proxying request")

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.WithError(err).Error("Failed to create request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	copyHeaders(req.Header, r.Header)
	req.Header.Set("X-Forwarded-For", forwardedFor(r))

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.WithError(err).WithField("target", targetURL).Error("Failed to proxy request")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.WithError(err).Warn("Failed to copy response")
	}
}

// RelayWebSocket dials the upstream socket first so a dead backend surfaces as 502
// before the client connection is upgraded.
func (g *Gateway) RelayWebSocket(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := "ws" + strings.TrimPrefix(targetURL, "http") + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	header := http.Header{}
	header.Set("X-Forwarded-For", forwardedFor(r))
	upstream, resp, err := g.dialer.DialContext(r.Context(), url, header)
	if err != nil {
		status := http.StatusBadGateway
		if resp != nil && resp.StatusCode >= 400 {
			status = resp.StatusCode
		}
		g.log.WithError(err).WithField("target", url).Error("Failed to dial upstream websocket")
		http.Error(w, http.StatusText(status), status)
		return
	}
	defer upstream.Close()

	client, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer client.Close()

	done := make(chan struct{}, 2)
	pump := func(dst, src *websocket.Conn) {
		defer func() { done <- struct{}{} }()
		for {
			kind, data, err := src.ReadMessage()
			if err != nil {
				return
			}
			if err := dst.WriteMessage(kind, data); err != nil {
				return
			}
		}
	}
	go pump(client, upstream)
	go pump(upstream, client)
	<-done
}

func isCatalogPath(path string) bool {
	switch {
	case path == "/api/restaurants", strings.HasPrefix(path, "/api/restaurants/"):
		return true
	case path == "/api/search":
		return true
	case path == "/api/grocery-shops", strings.HasPrefix(path, "/api/grocery-shops/"):
		return true
	}
	return false
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/api/sessions" || strings.HasPrefix(path, "/api/sessions/") {
		if websocket.IsWebSocketUpgrade(r) {
			g.RelayWebSocket(w, r, g.config.StateSvcURL)
			return
		}
		g.ProxyRequest(w, r, g.config.StateSvcURL)
		return
	}

	if isCatalogPath(path) {
		g.ProxyRequest(w, r, g.config.CatalogSvcURL)
		return
	}

	g.log.WithField("path", path).Warn("Unmatched API route")
	http.Error(w, "API route not found", http.StatusNotFound)
}

func (g *Gateway) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	return r
}
