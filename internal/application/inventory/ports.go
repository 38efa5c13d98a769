package inventory

import (
	"context"
	"time"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de estado del documento y los ajustes de saldo confirman juntos o no confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		receiptRepo repository.ReceiptRepository,
		shipmentRepo repository.ShipmentRepository,
	) error) error
}

// Tipos de evento de ciclo de vida de documentos.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	EventSigned  = "signed"
	EventRevoked = "revoked"
)

// Tipos de documento.
const (
	DocumentReceipt  = "receipt"
	DocumentShipment = "shipment"
)

// DocumentEvent notificación emitida después del commit.
type DocumentEvent struct {
	Type         string    `json:"type"`
	DocumentKind string    `json:"document_kind"`
	DocumentID   string    `json:"document_id"`
	Number       string    `json:"number"`
	Version      int64     `json:"version"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier consumidor no autoritativo de eventos (reportes, auditoría).
// Debe ser no bloqueante; sus fallos no afectan el resultado de la operación.
type Notifier interface {
	Notify(ctx context.Context, event DocumentEvent)
}

// Metrics contadores del motor de saldos.
type Metrics interface {
	AdjustmentsApplied(increases, decreases int)
	Rejected(reason string)
	Retried(operation string)
}

// Motivos de rechazo reportados a Metrics.
const (
	RejectInsufficientBalance = "insufficient_balance"
	RejectInvalidState        = "invalid_state"
	RejectConflict            = "conflict"
)

// NopNotifier descarta los eventos.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, DocumentEvent) {}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) AdjustmentsApplied(int, int) {}
func (NopMetrics) Rejected(string)             {}
func (NopMetrics) Retried(string)              {}
