package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ShipmentHandler maneja las peticiones HTTP de despachos.
type ShipmentHandler struct {
	uc   *inventory.ShipmentUseCase
	errs errorWriter
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *inventory.ShipmentUseCase, log *logger.Logger) *ShipmentHandler {
	return &ShipmentHandler{uc: uc, errs: newErrorWriter(log)}
}

// Create godoc
// @Summary      Registrar despacho
// @Description  Queda en borrador salvo sign=true, que firma y descuenta saldo en la misma transacción.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Número, cliente, fecha, líneas y firma opcional"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener despacho por ID
// @Tags         shipments
// @Produce      json
// @Param        id   path  string  true  "ID del despacho"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar despachos
// @Tags         shipments
// @Produce      json
// @Param        from         query  string    false  "Fecha desde (YYYY-MM-DD)"
// @Param        to           query  string    false  "Fecha hasta (YYYY-MM-DD)"
// @Param        number       query  []string  false  "Números de documento"
// @Param        client_id    query  []string  false  "Clientes"
// @Param        resource_id  query  []string  false  "Recursos presentes en las líneas"
// @Param        unit_id      query  []string  false  "Unidades presentes en las líneas"
// @Param        limit        query  int       false  "Límite"  default(20)
// @Param        offset       query  int       false  "Offset"  default(0)
// @Success      200  {object}  dto.ShipmentListResponse
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), documentListQuery(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar despacho
// @Description  Solo mientras no esté firmado. No afecta saldos salvo sign=true.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del despacho"
// @Param        body  body  dto.UpdateShipmentRequest  true  "Versión, número, cliente, fecha, líneas"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [put]
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar despacho
// @Description  Valida disponibilidad y descuenta saldo. El body es opcional (versión esperada).
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID del despacho"
// @Param        body  body  dto.ShipmentTransitionRequest  false  "Versión esperada"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/sign [post]
func (h *ShipmentHandler) Sign(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Sign)
}

// Revoke godoc
// @Summary      Revocar despacho
// @Description  Devuelve el saldo descontado y deja el despacho editable.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID del despacho"
// @Param        body  body  dto.ShipmentTransitionRequest  false  "Versión esperada"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/revoke [post]
func (h *ShipmentHandler) Revoke(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Revoke)
}

// Delete godoc
// @Summary      Eliminar despacho
// @Description  Un despacho firmado no puede eliminarse; debe revocarse antes.
// @Tags         shipments
// @Param        id   path  string  true  "ID del despacho"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type shipmentTransition func(ctx context.Context, id string, in dto.ShipmentTransitionRequest) (*dto.ShipmentResponse, error)

func (h *ShipmentHandler) transition(c *fiber.Ctx, fn shipmentTransition) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.ShipmentTransitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := fn(c.UserContext(), id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
