// Package memstore implementación en memoria de los puertos de persistencia.
// Las transacciones se serializan; cada una trabaja sobre una copia que se confirma al final.
package memstore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// Store estado confirmado en memoria.
type Store struct {
	txMu sync.Mutex   // una transacción a la vez
	mu   sync.RWMutex // protege los mapas confirmados

	data *txState
	refs map[entity.ReferenceKind]map[string]*entity.Reference

	lockCalls   atomic.Int64
	failMu      sync.Mutex
	commitFails []error
}

type txState struct {
	balances  map[entity.BalanceKey]*entity.Balance
	receipts  map[string]*entity.Receipt
	shipments map[string]*entity.Shipment
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		data: &txState{
			balances:  map[entity.BalanceKey]*entity.Balance{},
			receipts:  map[string]*entity.Receipt{},
			shipments: map[string]*entity.Shipment{},
		},
		refs: map[entity.ReferenceKind]map[string]*entity.Reference{},
	}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	receiptRepo repository.ReceiptRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := s.data.clone()
	s.mu.RUnlock()

	sc := scope{store: s, tx: tx}
	if err := fn(&BalanceRepo{sc}, &ReceiptRepo{sc}, &ShipmentRepo{sc}); err != nil {
		return err
	}
	if err := s.nextCommitFailure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx
	s.mu.Unlock()
	return nil
}

// FailCommits hace fallar los próximos commits con err, en orden (simula conflictos del motor de BD).
func (s *Store) FailCommits(errs ...error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.commitFails = append(s.commitFails, errs...)
}

func (s *Store) nextCommitFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if len(s.commitFails) == 0 {
		return nil
	}
	err := s.commitFails[0]
	s.commitFails = s.commitFails[1:]
	return err
}

// LockCalls cantidad de bloqueos de saldo solicitados desde la creación del store.
func (s *Store) LockCalls() int64 {
	return s.lockCalls.Load()
}

// Balances repositorio de lectura sobre el estado confirmado.
func (s *Store) Balances() *BalanceRepo { return &BalanceRepo{scope{store: s}} }

// Receipts repositorio de lectura sobre el estado confirmado.
func (s *Store) Receipts() *ReceiptRepo { return &ReceiptRepo{scope{store: s}} }

// Shipments repositorio de lectura sobre el estado confirmado.
func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{scope{store: s}} }

// References repositorio de datos maestros (fuera de las transacciones de documentos).
func (s *Store) References() *ReferenceRepo { return &ReferenceRepo{store: s} }

func (t *txState) clone() *txState {
	c := &txState{
		balances:  make(map[entity.BalanceKey]*entity.Balance, len(t.balances)),
		receipts:  make(map[string]*entity.Receipt, len(t.receipts)),
		shipments: make(map[string]*entity.Shipment, len(t.shipments)),
	}
	for k, b := range t.balances {
		c.balances[k] = b.Clone()
	}
	for id, r := range t.receipts {
		c.receipts[id] = r.Clone()
	}
	for id, sh := range t.shipments {
		c.shipments[id] = sh.Clone()
	}
	return c
}

// scope decide si un repositorio opera sobre la copia de una transacción o sobre el estado confirmado.
type scope struct {
	store *Store
	tx    *txState
}

func (sc scope) read() (*txState, func()) {
	if sc.tx != nil {
		return sc.tx, func() {}
	}
	sc.store.mu.RLock()
	return sc.store.data, sc.store.mu.RUnlock
}

func (sc scope) write() (*txState, func()) {
	if sc.tx != nil {
		return sc.tx, func() {}
	}
	sc.store.mu.Lock()
	return sc.store.data, sc.store.mu.Unlock
}
