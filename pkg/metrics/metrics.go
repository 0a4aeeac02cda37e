// Package metrics exporta as métricas da API no formato Prometheus
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace      = "ticket_sales"
	unmatchedRoute = "unmatched"
)

// Metrics concentra os coletores da API. Implementa os observers do storage
// de comprovantes e do caso de uso de vendas.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	bucketFallbacks *prometheus.CounterVec

	salesCreated *prometheus.CounterVec
}

// New cria um registry próprio com os coletores da API e os do runtime Go
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requisições HTTP atendidas por método, rota e status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latência das requisições HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "operation_duration_seconds",
			Help:      "Latência das operações no storage de comprovantes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "operation_errors_total",
			Help:      "Falhas nas operações do storage de comprovantes.",
		}, []string{"operation"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "uploaded_bytes_total",
			Help:      "Total de bytes de comprovantes enviados com sucesso.",
		}),
		bucketFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "bucket_fallbacks_total",
			Help:      "Tentativas de criar o bucket após upload em bucket inexistente.",
		}, []string{"result"}),
		salesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Vendas registradas, separadas por presença de comprovante.",
		}, []string{"receipt"}),
	}

	toRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.storageDuration,
		m.storageErrors,
		m.uploadedBytes,
		m.bucketFallbacks,
		m.salesCreated,
	}
	for _, collector := range toRegister {
		if err := m.registry.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("erro ao registrar métrica: %w", err)
		}
	}

	return m, nil
}

// Handler expõe o registry no formato texto do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry permite que outros componentes registrem coletores próprios
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordStorageOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.storageErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) RecordUploadedBytes(size int) {
	if m == nil {
		return
	}
	m.uploadedBytes.Add(float64(size))
}

func (m *Metrics) RecordBucketFallback(err error) {
	if m == nil {
		return
	}
	result := "created"
	if err != nil {
		result = "failed"
	}
	m.bucketFallbacks.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSaleCreated(withReceipt bool) {
	if m == nil {
		return
	}
	m.salesCreated.WithLabelValues(strconv.FormatBool(withReceipt)).Inc()
}

// InstrumentRoute registra contagem e latência usando o padrão da rota
// (ex: /api/cron/run/:type) como rótulo, nunca o caminho concreto.
func (m *Metrics) InstrumentRoute(method, pattern string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(srw, r)

		m.httpRequests.WithLabelValues(method, pattern, strconv.Itoa(srw.statusCode)).Inc()
		m.httpDuration.WithLabelValues(method, pattern).Observe(time.Since(start).Seconds())
	})
}

// InstrumentUnmatched agrupa requisições sem rota em um único rótulo
func (m *Metrics) InstrumentUnmatched(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InstrumentRoute(r.Method, unmatchedRoute, next).ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
