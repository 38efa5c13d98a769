package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ReceiptHandler maneja las peticiones HTTP de recepciones.
type ReceiptHandler struct {
	uc   *inventory.ReceiptUseCase
	errs errorWriter
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *inventory.ReceiptUseCase, log *logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, errs: newErrorWriter(log)}
}

// Create godoc
// @Summary      Registrar recepción
// @Description  Aumenta el saldo de cada (recurso, unidad) de las líneas en la misma transacción.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "Número, fecha y líneas"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
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
// @Summary      Obtener recepción por ID
// @Tags         receipts
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar recepciones
// @Tags         receipts
// @Produce      json
// @Param        from         query  string    false  "Fecha desde (YYYY-MM-DD)"
// @Param        to           query  string    false  "Fecha hasta (YYYY-MM-DD)"
// @Param        number       query  []string  false  "Números de documento"
// @Param        resource_id  query  []string  false  "Recursos presentes en las líneas"
// @Param        unit_id      query  []string  false  "Unidades presentes en las líneas"
// @Param        limit        query  int       false  "Límite"  default(20)
// @Param        offset       query  int       false  "Offset"  default(0)
// @Success      200  {object}  dto.ReceiptListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receipts [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), documentListQuery(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar recepción
// @Description  Reemplaza las líneas y aplica la diferencia neta por (recurso, unidad).
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la recepción"
// @Param        body  body  dto.UpdateReceiptRequest  true  "Versión, número, fecha y líneas"
// @Success      200   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [put]
func (h *ReceiptHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar recepción
// @Tags         receipts
// @Param        id   path  string  true  "ID de la recepción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
