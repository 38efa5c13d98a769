package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceQuery filtros de GET /api/balances.
type BalanceQuery struct {
	ResourceIDs []string
	UnitIDs     []string
	NonZeroOnly bool
}

// BalanceResponse saldo actual de un par (recurso, unidad).
type BalanceResponse struct {
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InsufficientBalanceDetails detalle del error de saldo insuficiente.
type InsufficientBalanceDetails struct {
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Requested  decimal.Decimal `json:"requested"`
	Available  decimal.Decimal `json:"available"`
}
