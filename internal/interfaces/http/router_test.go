package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/memstore"
	apphttp "github.com/vjmurenko/Warehouse-sub001/internal/interfaces/http"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type refs struct {
	resource string
	unit     string
	client   string
}

// buildTestApp monta el router completo sobre el store en memoria, con validación de datos maestros.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memstore.New()
	log := logger.Nop()
	balances := inventory.NewBalanceService(store.Balances(), nil, nil, log)
	validator := inventory.NewReferenceValidator(store.References())
	opts := inventory.Options{
		Retry:  inventory.RetryPolicy{MaxRetries: 1, InitialInterval: 1, MaxInterval: 1},
		Logger: log,
	}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Balances:   balances,
		Receipts:   inventory.NewReceiptUseCase(store, store.Receipts(), balances, validator, opts),
		Shipments:  inventory.NewShipmentUseCase(store, store.Shipments(), balances, validator, opts),
		References: usecase.NewReferenceUseCase(store.References(), log),
		Metrics:    func(c *fiber.Ctx) error { return c.SendString("# metrics") },
		Service:    "warehouse-test",
		Logger:     log,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func seedRefs(t *testing.T, app *fiber.App) refs {
	t.Helper()
	create := func(path, name string) string {
		status, body := do(t, app, http.MethodPost, path, dto.CreateReferenceRequest{Name: name})
		require.Equal(t, fiber.StatusCreated, status, string(body))
		return decode[dto.ReferenceResponse](t, body).ID
	}
	return refs{
		resource: create("/api/resources", "Tornillo"),
		unit:     create("/api/units", "Caja"),
		client:   create("/api/clients", "Acme"),
	}
}

func docLine(r refs, qty string) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{ResourceID: r.resource, UnitID: r.unit, Quantity: decimal.RequireFromString(qty)}
}

func balanceOf(t *testing.T, app *fiber.App, r refs) decimal.Decimal {
	t.Helper()
	status, body := do(t, app, http.MethodGet, "/api/balances?resource_id="+r.resource+"&unit_id="+r.unit, nil)
	require.Equal(t, fiber.StatusOK, status)
	list := decode[[]dto.BalanceResponse](t, body)
	if len(list) == 0 {
		return decimal.Zero
	}
	return list[0].Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RecepcionYDespachoDeExtremoAExtremo(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)

	status, body := do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
		Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "100")},
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	receipt := decode[dto.ReceiptResponse](t, body)
	assert.Equal(t, int64(1), receipt.Version)
	assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, app, r)))

	status, body = do(t, app, http.MethodPost, "/api/shipments", dto.CreateShipmentRequest{
		Number: "S-1", ClientID: r.client, Date: "2026-03-02", Lines: []dto.DocumentLineRequest{docLine(r, "30")},
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	shipment := decode[dto.ShipmentResponse](t, body)
	assert.False(t, shipment.Signed)
	assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, app, r)), "el borrador no afecta saldos")

	status, body = do(t, app, http.MethodPost, "/api/shipments/"+shipment.ID+"/sign", nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.True(t, decode[dto.ShipmentResponse](t, body).Signed)
	assert.True(t, decimal.NewFromInt(70).Equal(balanceOf(t, app, r)))

	status, body = do(t, app, http.MethodDelete, "/api/shipments/"+shipment.ID, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, body).Code)

	status, _ = do(t, app, http.MethodPost, "/api/shipments/"+shipment.ID+"/revoke", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, app, r)))

	status, _ = do(t, app, http.MethodDelete, "/api/shipments/"+shipment.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = do(t, app, http.MethodDelete, "/api/receipts/"+receipt.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.True(t, decimal.Zero.Equal(balanceOf(t, app, r)))
}

func TestRouter_SaldoInsuficienteDevuelveDetalle(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)

	status, _ := do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
		Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "5")},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := do(t, app, http.MethodPost, "/api/shipments", dto.CreateShipmentRequest{
		Number: "S-1", ClientID: r.client, Date: "2026-03-02", Lines: []dto.DocumentLineRequest{docLine(r, "8")}, Sign: true,
	})
	require.Equal(t, fiber.StatusConflict, status, string(body))

	var resp struct {
		Code    string                         `json:"code"`
		Details dto.InsufficientBalanceDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "INSUFFICIENT_BALANCE", resp.Code)
	assert.Equal(t, r.resource, resp.Details.ResourceID)
	assert.Equal(t, r.unit, resp.Details.UnitID)
	assert.True(t, decimal.NewFromInt(8).Equal(resp.Details.Requested))
	assert.True(t, decimal.NewFromInt(5).Equal(resp.Details.Available))

	status, body = do(t, app, http.MethodGet, "/api/shipments", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[dto.ShipmentListResponse](t, body).Items, "el despacho rechazado no se persiste")
}

func TestRouter_ErroresDeEntrada(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)

	status, body := do(t, app, http.MethodPost, "/api/receipts", "{no es json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
		Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "0")},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	for _, qty := range []string{"0.00005", "100000000000000"} {
		status, body = do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
			Number: "R-2", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, qty), docLine(r, qty)},
		})
		assert.Equal(t, fiber.StatusBadRequest, status, qty)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code, qty)
	}
	assert.True(t, decimal.Zero.Equal(balanceOf(t, app, r)), "nada se aplica al saldo")

	status, body = do(t, app, http.MethodGet, "/api/receipts/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodGet, "/api/receipts?from=2026-03-05&to=2026-03-01", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)
}

func TestRouter_NumeroDuplicadoYVersionDesactualizada(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)
	in := dto.CreateReceiptRequest{Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "1")}}

	status, body := do(t, app, http.MethodPost, "/api/receipts", in)
	require.Equal(t, fiber.StatusCreated, status)
	receipt := decode[dto.ReceiptResponse](t, body)

	status, body = do(t, app, http.MethodPost, "/api/receipts", in)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, body).Code)

	update := dto.UpdateReceiptRequest{Version: receipt.Version, Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "4")}}
	status, body = do(t, app, http.MethodPut, "/api/receipts/"+receipt.ID, update)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, receipt.Version+1, decode[dto.ReceiptResponse](t, body).Version)
	assert.True(t, decimal.NewFromInt(4).Equal(balanceOf(t, app, r)))

	status, body = do(t, app, http.MethodPut, "/api/receipts/"+receipt.ID, update)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, body).Code)
}

func TestRouter_DatosMaestrosArchivados(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)

	status, body := do(t, app, http.MethodPost, "/api/resources/"+r.resource+"/archive", nil)
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
		Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{docLine(r, "1")},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodGet, "/api/resources?state=ARCHIVED", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[dto.ReferenceListResponse](t, body).Items, 1)

	status, _ = do(t, app, http.MethodPost, "/api/resources/"+r.resource+"/restore", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, http.MethodPost, "/api/clients", dto.CreateReferenceRequest{Name: "acme"})
	assert.Equal(t, fiber.StatusConflict, status, "nombre duplicado sin distinguir mayúsculas")
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, body).Code)
}

func TestRouter_FiltroDeSaldosSeparadoPorComas(t *testing.T) {
	app := buildTestApp(t)
	r := seedRefs(t, app)
	status, body := do(t, app, http.MethodPost, "/api/units", dto.CreateReferenceRequest{Name: "Unidad"})
	require.Equal(t, fiber.StatusCreated, status)
	other := decode[dto.ReferenceResponse](t, body).ID

	status, _ = do(t, app, http.MethodPost, "/api/receipts", dto.CreateReceiptRequest{
		Number: "R-1", Date: "2026-03-01", Lines: []dto.DocumentLineRequest{
			docLine(r, "2"),
			{ResourceID: r.resource, UnitID: other, Quantity: decimal.NewFromInt(3)},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = do(t, app, http.MethodGet, "/api/balances?unit_id="+r.unit+","+other, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.BalanceResponse](t, body), 2)

	status, body = do(t, app, http.MethodGet, "/api/balances?unit_id="+other, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.BalanceResponse](t, body), 1)
}

func TestRouter_HealthYMetrics(t *testing.T) {
	app := buildTestApp(t)

	status, body := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"warehouse-test"`)

	status, body = do(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "# metrics", string(body))
}

func TestRouter_HealthCaido(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Health: func(context.Context) error { return errors.New("sin conexión") },
	})
	status, _ := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}
