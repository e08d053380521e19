package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Collector struct {
	registry           *prometheus.Registry
	accountsCreated    prometheus.Counter
	transfersCompleted prometheus.Counter
	transfersFailed    prometheus.Counter
	transferDuration   prometheus.Histogram
	accountBalance     *prometheus.GaugeVec
	logger             *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		accountsCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "accounts_created_total",
			Help: "Total number of accounts created",
		}),
		transfersCompleted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		transfersFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transfers_failed_total",
			Help: "Total number of rejected or failed transfers",
		}),
		transferDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "transfer_duration_seconds",
			Help:    "Time taken to execute a transfer",
			Buckets: prometheus.DefBuckets,
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "account_balance",
			Help: "Current account balance",
		}, []string{"account_id"}),
		logger: logger,
	}
}

func (m *Collector) RecordAccountCreated() {
	m.accountsCreated.Inc()
}

func (m *Collector) RecordTransfer(duration time.Duration, success bool) {
	if success {
		m.transfersCompleted.Inc()
	} else {
		m.transfersFailed.Inc()
	}
	m.transferDuration.Observe(duration.Seconds())
}

func (m *Collector) SetAccountBalance(accountID int64, balance decimal.Decimal) {
	m.accountBalance.WithLabelValues(strconv.FormatInt(accountID, 10)).Set(balance.InexactFloat64())
}

func (m *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Collector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}
