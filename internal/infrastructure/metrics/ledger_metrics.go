// Package metrics contadores Prometheus del motor de saldos.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
)

var _ inventory.Metrics = (*LedgerMetrics)(nil)

// LedgerMetrics implementa inventory.Metrics sobre Prometheus.
type LedgerMetrics struct {
	adjustments *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	retries     *prometheus.CounterVec
}

// NewLedgerMetrics registra los contadores en registerer (DefaultRegisterer si es nil).
func NewLedgerMetrics(registerer prometheus.Registerer, serviceName, environment string) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		serviceName = "warehouse"
	}
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &LedgerMetrics{
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "warehouse_ledger_adjustments_total",
			Help:        "Ajustes de saldo confirmados por dirección.",
			ConstLabels: constLabels,
		}, []string{"direction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "warehouse_ledger_rejections_total",
			Help:        "Operaciones rechazadas por motivo (saldo insuficiente, estado inválido, conflicto).",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "warehouse_operation_retries_total",
			Help:        "Reintentos por conflicto de concurrencia.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
	}
	registerer.MustRegister(m.adjustments, m.rejections, m.retries)
	return m
}

func (m *LedgerMetrics) AdjustmentsApplied(increases, decreases int) {
	if increases > 0 {
		m.adjustments.WithLabelValues("increase").Add(float64(increases))
	}
	if decreases > 0 {
		m.adjustments.WithLabelValues("decrease").Add(float64(decreases))
	}
}

func (m *LedgerMetrics) Rejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *LedgerMetrics) Retried(operation string) {
	m.retries.WithLabelValues(operation).Inc()
}
