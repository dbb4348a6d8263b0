package prometheus

import (
	"fmt"
	"net/http"
	"time"

	"github.com/keremkk/kisalink/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer builds the standalone /metrics listener. It runs on its own
// port so the scrape endpoint is never exposed through the public app.
func NewServer(cfg config.PrometheusConfig) *http.Server {
	port := cfg.Port
	if port == 0 {
		port = 9090
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
