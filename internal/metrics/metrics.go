package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// Every recording method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	apiRequests     *prometheus.CounterVec
	apiErrors       *prometheus.CounterVec

	sitesCreated  prometheus.Counter
	sitesDeleted  prometheus.Counter
	orders        *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	emails        *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// New registers every collector under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path"}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API responses with status >= 400",
		}, []string{"method", "path", "status"}),

		sitesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_created_total",
			Help:      "Total number of tenant sites created",
		}),
		sitesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_deleted_total",
			Help:      "Total number of tenant sites deleted",
		}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_orders_total",
			Help:      "Billing order transitions by resulting status",
		}, []string{"plan", "status"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Outbound payment provider calls",
		}, []string{"provider", "operation", "outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_emails_total",
			Help:      "Verification emails by outcome",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by principal scope and outcome",
		}, []string{"scope", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration, m.apiRequests, m.apiErrors,
		m.sitesCreated, m.sitesDeleted, m.orders, m.providerCalls, m.emails, m.logins,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware tracks request metrics.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			method, path := c.Request().Method, c.Path()
			m.apiRequests.With(prometheus.Labels{"method": method, "path": path}).Inc()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			m.requestDuration.With(prometheus.Labels{
				"method": method,
				"path":   path,
				"status": status,
			}).Observe(time.Since(start).Seconds())
			if c.Response().Status >= 400 {
				m.apiErrors.With(prometheus.Labels{"method": method, "path": path, "status": status}).Inc()
			}
			return nil
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

func (m *Metrics) SiteCreated() {
	if m == nil {
		return
	}
	m.sitesCreated.Inc()
}

func (m *Metrics) SiteDeleted() {
	if m == nil {
		return
	}
	m.sitesDeleted.Inc()
}

// OrderTransition counts an order reaching status.
func (m *Metrics) OrderTransition(plan, status string) {
	if m == nil {
		return
	}
	m.orders.With(prometheus.Labels{"plan": plan, "status": status}).Inc()
}

// ProviderCall counts an outbound provider call; err decides the outcome label.
func (m *Metrics) ProviderCall(provider, operation string, err error) {
	if m == nil {
		return
	}
	m.providerCalls.With(prometheus.Labels{
		"provider":  provider,
		"operation": operation,
		"outcome":   outcome(err),
	}).Inc()
}

func (m *Metrics) VerificationEmail(err error) {
	if m == nil {
		return
	}
	m.emails.With(prometheus.Labels{"outcome": outcome(err)}).Inc()
}

func (m *Metrics) Login(scope string, err error) {
	if m == nil {
		return
	}
	m.logins.With(prometheus.Labels{"scope": scope, "outcome": outcome(err)}).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
