package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Balances   *inventory.BalanceService
	Receipts   *inventory.ReceiptUseCase
	Shipments  *inventory.ShipmentUseCase
	References *usecase.ReferenceUseCase
	Metrics    fiber.Handler               // opcional: exposición Prometheus en /metrics
	Health     func(context.Context) error // opcional: ping a la base de datos
	Service    string
	Logger     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.Service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}

	api := app.Group("/api")

	balanceHandler := NewBalanceHandler(deps.Balances, log)
	api.Get("/balances", balanceHandler.List)

	receipts := api.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.Receipts, log)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Put("/:id", receiptHandler.Update)
	receipts.Delete("/:id", receiptHandler.Delete)

	shipments := api.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.Shipments, log)
	shipments.Post("/", shipmentHandler.Create)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Put("/:id", shipmentHandler.Update)
	shipments.Delete("/:id", shipmentHandler.Delete)
	shipments.Post("/:id/sign", shipmentHandler.Sign)
	shipments.Post("/:id/revoke", shipmentHandler.Revoke)

	// Datos maestros: misma forma para los tres tipos
	for path, kind := range map[string]entity.ReferenceKind{
		"/resources": entity.ReferenceResource,
		"/units":     entity.ReferenceUnit,
		"/clients":   entity.ReferenceClient,
	} {
		group := api.Group(path)
		h := NewReferenceHandler(deps.References, kind, log)
		group.Post("/", h.Create)
		group.Get("/", h.List)
		group.Get("/:id", h.GetByID)
		group.Put("/:id", h.Update)
		group.Post("/:id/archive", h.Archive)
		group.Post("/:id/restore", h.Restore)
	}
}
