package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so several servers can coexist in one process.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ingestTotal     *prometheus.CounterVec
}

// NewMetrics registers the HTTP and store collectors. stats is sampled on
// every scrape.
func NewMetrics(stats func() (documents, chunks int)) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnrag_http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "learnrag_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"method", "route"},
		),
		ingestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnrag_documents_ingested_total",
				Help: "Ingestion attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	if stats != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "learnrag_documents",
			Help: "Documents currently held in the store",
		}, func() float64 {
			docs, _ := stats()
			return float64(docs)
		})
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "learnrag_chunks",
			Help: "Chunks currently held in the store",
		}, func() float64 {
			_, chunks := stats()
			return float64(chunks)
		})
	}

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(c echo.Context, duration time.Duration) {
	route := c.Path()
	if route == "" {
		route = "unmatched"
	}
	method := c.Request().Method
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) observeIngest(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ingestTotal.WithLabelValues(outcome).Inc()
}
