//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/postgres"
	"github.com/vjmurenko/Warehouse-sub001/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("warehouse"),
		tcpostgres.WithUsername("warehouse"),
		tcpostgres.WithPassword("warehouse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(pool))
	require.NoError(t, postgres.Migrate(pool), "aplicar dos veces no falla")
	return pool
}

type pgHarness struct {
	pool      *pgxpool.Pool
	balances  *inventory.BalanceService
	receipts  *inventory.ReceiptUseCase
	shipments *inventory.ShipmentUseCase
}

func newPGHarness(t *testing.T, pool *pgxpool.Pool, lockTimeout time.Duration, retries int) *pgHarness {
	t.Helper()
	runner := postgres.NewTxRunner(pool, lockTimeout)
	balances := inventory.NewBalanceService(postgres.NewBalanceRepository(pool), nil, nil, nil)
	refs := inventory.NewReferenceValidator(postgres.NewReferenceRepository(pool))
	opts := inventory.Options{Retry: inventory.RetryPolicy{MaxRetries: retries, InitialInterval: 10 * time.Millisecond}}
	return &pgHarness{
		pool:      pool,
		balances:  balances,
		receipts:  inventory.NewReceiptUseCase(runner, postgres.NewReceiptRepository(pool), balances, refs, opts),
		shipments: inventory.NewShipmentUseCase(runner, postgres.NewShipmentRepository(pool), balances, refs, opts),
	}
}

func seedReferences(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	repo := postgres.NewReferenceRepository(pool)
	now := time.Now()
	for _, ref := range []*entity.Reference{
		{ID: "res-x", Kind: entity.ReferenceResource, Name: "Tornillo", State: entity.ReferenceStateActive},
		{ID: "unit-y", Kind: entity.ReferenceUnit, Name: "Caja", State: entity.ReferenceStateActive},
		{ID: "client-1", Kind: entity.ReferenceClient, Name: "Acme", Address: "Calle 1", State: entity.ReferenceStateActive},
	} {
		ref.CreatedAt, ref.UpdatedAt = now, now
		require.NoError(t, repo.Create(context.Background(), ref))
	}
}

func pgLine(qty string) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{ResourceID: "res-x", UnitID: "unit-y", Quantity: decimal.RequireFromString(qty)}
}

func (h *pgHarness) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	list, err := h.balances.GetBalances(context.Background(), dto.BalanceQuery{ResourceIDs: []string{"res-x"}, UnitIDs: []string{"unit-y"}})
	require.NoError(t, err)
	if len(list) == 0 {
		return decimal.Zero
	}
	return list[0].Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_EscenariosAE(t *testing.T) {
	pool := startPostgres(t)
	seedReferences(t, pool)
	h := newPGHarness(t, pool, 2*time.Second, 3)
	ctx := context.Background()

	r1, err := h.receipts.Create(ctx, dto.CreateReceiptRequest{Number: "R1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{pgLine("100")}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(h.balance(t)))

	s1, err := h.shipments.Create(ctx, dto.CreateShipmentRequest{Number: "S1", ClientID: "client-1", Date: "2026-03-02", Lines: []dto.DocumentLineRequest{pgLine("40")}, Sign: true})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(h.balance(t)))

	_, err = h.shipments.Create(ctx, dto.CreateShipmentRequest{Number: "S2", ClientID: "client-1", Date: "2026-03-02", Lines: []dto.DocumentLineRequest{pgLine("70")}, Sign: true})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, decimal.NewFromInt(60).Equal(h.balance(t)))

	_, err = h.shipments.Revoke(ctx, s1.ID, dto.ShipmentTransitionRequest{Version: s1.Version})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(h.balance(t)))

	_, err = h.receipts.Update(ctx, r1.ID, dto.UpdateReceiptRequest{Version: r1.Version, Number: "R1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{pgLine("30")}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(h.balance(t)))

	require.NoError(t, h.receipts.Delete(ctx, r1.ID))
	assert.True(t, decimal.Zero.Equal(h.balance(t)))

	list, err := h.shipments.List(ctx, dto.DocumentListQuery{ClientIDs: []string{"client-1"}, ResourceIDs: []string{"res-x"}})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, entity.ShipmentStateRevoked, list.Items[0].State)
}

func TestPostgres_FirmasConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	pool := startPostgres(t)
	seedReferences(t, pool)
	h := newPGHarness(t, pool, 5*time.Second, 5)
	ctx := context.Background()

	_, err := h.receipts.Create(ctx, dto.CreateReceiptRequest{Number: "R1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{pgLine("10")}})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	signed := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.shipments.Create(ctx, dto.CreateShipmentRequest{
				Number: fmt.Sprintf("S%d", i), ClientID: "client-1", Date: "2026-03-02",
				Lines: []dto.DocumentLineRequest{pgLine("3")}, Sign: true,
			})
			if err == nil {
				mu.Lock()
				signed++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, signed)
	assert.True(t, decimal.NewFromInt(1).Equal(h.balance(t)))
}

func TestPostgres_AumentosYDescuentosConcurrentesConvergen(t *testing.T) {
	pool := startPostgres(t)
	seedReferences(t, pool)
	h := newPGHarness(t, pool, 5*time.Second, 5)
	ctx := context.Background()

	_, err := h.receipts.Create(ctx, dto.CreateReceiptRequest{Number: "R0", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{pgLine("50")}})
	require.NoError(t, err)

	// Con 50 iniciales, incluso si todos los despachos corren antes que las recepciones
	// (10 x 4 = 40) el saldo alcanza: cualquier orden serial termina en 50 + 10*5 - 10*4.
	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*workers)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := h.receipts.Create(ctx, dto.CreateReceiptRequest{
				Number: fmt.Sprintf("R%d", i+1), Date: "2026-03-02", Lines: []dto.DocumentLineRequest{pgLine("5")},
			})
			errs <- err
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := h.shipments.Create(ctx, dto.CreateShipmentRequest{
				Number: fmt.Sprintf("S%d", i), ClientID: "client-1", Date: "2026-03-02",
				Lines: []dto.DocumentLineRequest{pgLine("4")}, Sign: true,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.True(t, decimal.NewFromInt(60).Equal(h.balance(t)), "sin actualizaciones perdidas: %s", h.balance(t))

	var linesTotal decimal.Decimal
	require.NoError(t, pool.QueryRow(ctx, `
		SELECT (SELECT COALESCE(SUM(quantity), 0) FROM receipt_lines)
		     - (SELECT COALESCE(SUM(l.quantity), 0) FROM shipment_lines l JOIN shipments s ON s.id = l.shipment_id WHERE s.signed)`,
	).Scan(&linesTotal))
	assert.True(t, linesTotal.Equal(h.balance(t)), "el saldo coincide con las líneas vigentes")
}

func TestPostgres_LockTimeoutEsConflicto(t *testing.T) {
	pool := startPostgres(t)
	seedReferences(t, pool)
	h := newPGHarness(t, pool, 200*time.Millisecond, 0)
	ctx := context.Background()

	_, err := h.receipts.Create(ctx, dto.CreateReceiptRequest{Number: "R1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{pgLine("10")}})
	require.NoError(t, err)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, `SELECT 1 FROM balances WHERE resource_id = 'res-x' AND unit_id = 'unit-y' FOR UPDATE`)
	require.NoError(t, err)

	_, err = h.shipments.Create(ctx, dto.CreateShipmentRequest{Number: "S1", ClientID: "client-1", Date: "2026-03-02", Lines: []dto.DocumentLineRequest{pgLine("1")}, Sign: true})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, domain.IsRetryable(err))

	require.NoError(t, holder.Rollback(ctx))
	assert.True(t, decimal.NewFromInt(10).Equal(h.balance(t)))
}

func TestPostgres_NumeroUnicoPorIndice(t *testing.T) {
	pool := startPostgres(t)
	repo := postgres.NewReceiptRepository(pool)
	ctx := context.Background()
	now := time.Now()

	r := &entity.Receipt{ID: "a", Number: "R1", Date: now, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, r))
	err := repo.Create(ctx, &entity.Receipt{ID: "b", Number: "R1", Date: now, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = repo.Update(ctx, r, 7)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}
