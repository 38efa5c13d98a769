package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	resX  = "res-x"
	resZ  = "res-z"
	unitY = "unit-y"
	date  = "2026-03-01"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []inventory.DocumentEvent
}

func (n *recordingNotifier) Notify(_ context.Context, e inventory.DocumentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.DocumentKind+"."+e.Type)
	}
	return out
}

type countingMetrics struct {
	mu         sync.Mutex
	increases  int
	decreases  int
	rejections map[string]int
	retries    map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{rejections: map[string]int{}, retries: map[string]int{}}
}

func (m *countingMetrics) AdjustmentsApplied(inc, dec int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.increases += inc
	m.decreases += dec
}

func (m *countingMetrics) Rejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[reason]++
}

func (m *countingMetrics) Retried(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries[op]++
}

type harness struct {
	store     *memstore.Store
	balances  *inventory.BalanceService
	receipts  *inventory.ReceiptUseCase
	shipments *inventory.ShipmentUseCase
	notifier  *recordingNotifier
	metrics   *countingMetrics
}

// newHarness arma los casos de uso sobre el store en memoria, sin validación de datos maestros.
func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithRefs(t, nil)
}

func newHarnessWithRefs(t *testing.T, refs *inventory.ReferenceValidator) *harness {
	t.Helper()
	store := memstore.New()
	notifier := &recordingNotifier{}
	metrics := newCountingMetrics()
	balances := inventory.NewBalanceService(store.Balances(), inventory.NewAvailabilityValidator(), metrics, nil)
	opts := inventory.Options{
		Notifier: notifier,
		Metrics:  metrics,
		Retry:    inventory.RetryPolicy{MaxRetries: 3, InitialInterval: 1, MaxInterval: 1},
	}
	return &harness{
		store:     store,
		balances:  balances,
		receipts:  inventory.NewReceiptUseCase(store, store.Receipts(), balances, refs, opts),
		shipments: inventory.NewShipmentUseCase(store, store.Shipments(), balances, refs, opts),
		notifier:  notifier,
		metrics:   metrics,
	}
}

func line(resource, unit, qty string) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{ResourceID: resource, UnitID: unit, Quantity: decimal.RequireFromString(qty)}
}

func lines(ls ...dto.DocumentLineRequest) []dto.DocumentLineRequest { return ls }

// balanceOf saldo confirmado de (recurso, unidad); 0 si no existe la fila.
func (h *harness) balanceOf(t *testing.T, resource, unit string) string {
	t.Helper()
	list, err := h.balances.GetBalances(context.Background(), dto.BalanceQuery{
		ResourceIDs: []string{resource},
		UnitIDs:     []string{unit},
	})
	require.NoError(t, err)
	if len(list) == 0 {
		return "0"
	}
	return list[0].Quantity.String()
}

func (h *harness) createReceipt(t *testing.T, number string, ls ...dto.DocumentLineRequest) *dto.ReceiptResponse {
	t.Helper()
	r, err := h.receipts.Create(context.Background(), dto.CreateReceiptRequest{Number: number, Date: date, Lines: ls})
	require.NoError(t, err)
	return r
}

func (h *harness) createShipment(t *testing.T, number string, sign bool, ls ...dto.DocumentLineRequest) *dto.ShipmentResponse {
	t.Helper()
	s, err := h.shipments.Create(context.Background(), dto.CreateShipmentRequest{
		Number: number, ClientID: "client-1", Date: date, Lines: ls, Sign: sign,
	})
	require.NoError(t, err)
	return s
}

// ledgerFromDocuments recalcula el saldo esperado desde los documentos vigentes.
func (h *harness) ledgerFromDocuments(t *testing.T) map[entity.BalanceKey]decimal.Decimal {
	t.Helper()
	ctx := context.Background()
	out := map[entity.BalanceKey]decimal.Decimal{}
	receipts, err := h.receipts.List(ctx, dto.DocumentListQuery{Page: dto.PageRequest{Limit: 100}})
	require.NoError(t, err)
	for _, r := range receipts.Items {
		for _, l := range r.Lines {
			k := entity.BalanceKey{ResourceID: l.ResourceID, UnitID: l.UnitID}
			out[k] = out[k].Add(l.Quantity)
		}
	}
	shipments, err := h.shipments.List(ctx, dto.DocumentListQuery{Page: dto.PageRequest{Limit: 100}})
	require.NoError(t, err)
	for _, s := range shipments.Items {
		if !s.Signed {
			continue
		}
		for _, l := range s.Lines {
			k := entity.BalanceKey{ResourceID: l.ResourceID, UnitID: l.UnitID}
			out[k] = out[k].Sub(l.Quantity)
		}
	}
	return out
}
