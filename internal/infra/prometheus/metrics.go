package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redirect outcome and visit classification counters, scraped by the
// metrics server in this package.
var (
	RedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisalink_redirects_total",
		Help: "Redirect requests by outcome.",
	}, []string{"outcome"})

	ClicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kisalink_clicks_total",
		Help: "Resolved visits by traffic classification.",
	}, []string{"kind"})
)

// Label values for RedirectsTotal.
const (
	OutcomeRedirected = "redirected"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)
