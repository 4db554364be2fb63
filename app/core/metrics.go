package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/exb-museum/exb-admin/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	crawlTime       *prometheus.HistogramVec
	crawlError      *prometheus.CounterVec
	jobCounter      *prometheus.CounterVec
	loginCounter    *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		crawlTime:       metrics.NewHistogramVec("aicrawl_time", []string{"stage"}),
		crawlError:      metrics.NewCounterVec("aicrawl_error", []string{"stage"}),
		jobCounter:      metrics.NewCounterVec("job_execute", []string{"job_group", "status"}),
		loginCounter:    metrics.NewCounterVec("login", []string{"status"}),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

// CrawlTimer stage: screenshot / scrape / extract
func (m *Metrics) CrawlTimer(stage string) *prometheus.Timer {
	return prometheus.NewTimer(m.crawlTime.WithLabelValues(stage))
}

func (m *Metrics) CrawlErrorInc(stage string) {
	m.crawlError.WithLabelValues(stage).Inc()
}

func (m *Metrics) JobInc(group, status string) {
	m.jobCounter.WithLabelValues(group, status).Inc()
}

func (m *Metrics) LoginInc(status string) {
	m.loginCounter.WithLabelValues(status).Inc()
}
