package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de documentos en la API.
const DateLayout = "2006-01-02"

// DocumentLineRequest línea de un documento en la entrada.
type DocumentLineRequest struct {
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// DocumentLineResponse línea de un documento en la salida.
type DocumentLineResponse struct {
	ID         string          `json:"id"`
	ResourceID string          `json:"resource_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateReceiptRequest body para POST /api/receipts.
type CreateReceiptRequest struct {
	Number string                `json:"number"`
	Date   string                `json:"date"` // YYYY-MM-DD
	Lines  []DocumentLineRequest `json:"lines"`
}

// UpdateReceiptRequest body para PUT /api/receipts/:id. Version 0 omite la verificación optimista.
type UpdateReceiptRequest struct {
	Version int64                 `json:"version"`
	Number  string                `json:"number"`
	Date    string                `json:"date"`
	Lines   []DocumentLineRequest `json:"lines"`
}

// ReceiptResponse salida de un documento de recepción.
type ReceiptResponse struct {
	ID        string                 `json:"id"`
	Number    string                 `json:"number"`
	Date      string                 `json:"date"`
	Lines     []DocumentLineResponse `json:"lines"`
	Version   int64                  `json:"version"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// CreateShipmentRequest body para POST /api/shipments. Sign=true crea y firma en la misma transacción.
type CreateShipmentRequest struct {
	Number   string                `json:"number"`
	ClientID string                `json:"client_id"`
	Date     string                `json:"date"`
	Lines    []DocumentLineRequest `json:"lines"`
	Sign     bool                  `json:"sign"`
}

// UpdateShipmentRequest body para PUT /api/shipments/:id.
type UpdateShipmentRequest struct {
	Version  int64                 `json:"version"`
	Number   string                `json:"number"`
	ClientID string                `json:"client_id"`
	Date     string                `json:"date"`
	Lines    []DocumentLineRequest `json:"lines"`
	Sign     bool                  `json:"sign"`
}

// ShipmentTransitionRequest body para firmar o revocar.
type ShipmentTransitionRequest struct {
	Version int64 `json:"version"`
}

// ShipmentResponse salida de un documento de despacho.
type ShipmentResponse struct {
	ID        string                 `json:"id"`
	Number    string                 `json:"number"`
	ClientID  string                 `json:"client_id"`
	Date      string                 `json:"date"`
	State     string                 `json:"state"`
	Signed    bool                   `json:"signed"`
	SignedAt  *time.Time             `json:"signed_at,omitempty"`
	Lines     []DocumentLineResponse `json:"lines"`
	Version   int64                  `json:"version"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// DocumentListQuery filtros de listado (query string).
type DocumentListQuery struct {
	From        string
	To          string
	Numbers     []string
	ResourceIDs []string
	UnitIDs     []string
	ClientIDs   []string
	Page        PageRequest
}

// ReceiptListResponse lista paginada de recepciones.
type ReceiptListResponse struct {
	Items []ReceiptResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ShipmentListResponse lista paginada de despachos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
