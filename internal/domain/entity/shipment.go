package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// Estados visibles de un documento de despacho.
const (
	ShipmentStateDraft   = "DRAFT"   // editable, sin efecto en saldos
	ShipmentStateSigned  = "SIGNED"  // saldo descontado, contenido inmutable
	ShipmentStateRevoked = "REVOKED" // firmado y revocado: editable de nuevo, saldo devuelto
)

// Shipment documento de despacho a un cliente. Solo descuenta saldo mientras está firmado.
type Shipment struct {
	ID        string
	Number    string
	ClientID  string
	Date      time.Time
	Lines     []DocumentLine
	Signed    bool
	Revoked   bool // fue firmado alguna vez y luego revocado
	SignedAt  *time.Time
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State estado derivado de los flags signed/revoked.
func (s *Shipment) State() string {
	switch {
	case s.Signed:
		return ShipmentStateSigned
	case s.Revoked:
		return ShipmentStateRevoked
	default:
		return ShipmentStateDraft
	}
}

// Editable solo mientras no esté firmado (borrador o revocado).
func (s *Shipment) Editable() bool {
	return !s.Signed
}

// ReplaceContent reemplaza cabecera y líneas. Falla si el documento está firmado.
func (s *Shipment) ReplaceContent(number, clientID string, date time.Time, lines []DocumentLine) error {
	if !s.Editable() {
		return fmt.Errorf("%w: el despacho %s está firmado; revocar antes de modificar", domain.ErrInvalidDocumentState, s.Number)
	}
	s.Number = number
	s.ClientID = clientID
	s.Date = date
	s.Lines = bindLines(s.ID, lines)
	return nil
}

// Sign transición Draft -> Signed. Requiere al menos una línea.
func (s *Shipment) Sign(now time.Time) error {
	if s.Signed {
		return fmt.Errorf("%w: el despacho %s ya está firmado", domain.ErrInvalidDocumentState, s.Number)
	}
	if len(s.Lines) == 0 {
		return fmt.Errorf("%w: no se puede firmar el despacho %s sin líneas", domain.ErrInvalidDocumentState, s.Number)
	}
	s.Signed = true
	s.SignedAt = &now
	s.UpdatedAt = now
	return nil
}

// Revoke transición Signed -> Draft (queda marcado como revocado).
func (s *Shipment) Revoke(now time.Time) error {
	if !s.Signed {
		return fmt.Errorf("%w: el despacho %s no está firmado", domain.ErrInvalidDocumentState, s.Number)
	}
	s.Signed = false
	s.Revoked = true
	s.SignedAt = nil
	s.UpdatedAt = now
	return nil
}

// CanDelete un despacho firmado debe revocarse antes de eliminarse.
func (s *Shipment) CanDelete() error {
	if s.Signed {
		return fmt.Errorf("%w: el despacho %s está firmado; revocar antes de eliminar", domain.ErrInvalidDocumentState, s.Number)
	}
	return nil
}

// Clone copia profunda del documento.
func (s *Shipment) Clone() *Shipment {
	c := *s
	c.Lines = CloneLines(s.Lines)
	if s.SignedAt != nil {
		t := *s.SignedAt
		c.SignedAt = &t
	}
	return &c
}

// bindLines asigna DocumentID y genera ID a las líneas nuevas.
func bindLines(documentID string, lines []DocumentLine) []DocumentLine {
	out := make([]DocumentLine, len(lines))
	for i, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = documentID
		out[i] = l
	}
	return out
}
