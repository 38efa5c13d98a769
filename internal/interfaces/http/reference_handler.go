package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ReferenceHandler maneja un tipo de dato maestro (recursos, unidades o clientes).
// El tipo queda fijado al construirlo; el router monta una instancia por tipo.
type ReferenceHandler struct {
	uc   *usecase.ReferenceUseCase
	kind entity.ReferenceKind
	errs errorWriter
}

// NewReferenceHandler construye el handler para kind.
func NewReferenceHandler(uc *usecase.ReferenceUseCase, kind entity.ReferenceKind, log *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{uc: uc, kind: kind, errs: newErrorWriter(log)}
}

// Create godoc
// @Summary      Crear dato maestro
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReferenceRequest  true  "Nombre (y dirección para clientes)"
// @Success      201   {object}  dto.ReferenceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/resources [post]
// @Router       /api/units [post]
// @Router       /api/clients [post]
func (h *ReferenceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), h.kind, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener dato maestro por ID
// @Tags         references
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ReferenceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resources/{id} [get]
// @Router       /api/units/{id} [get]
// @Router       /api/clients/{id} [get]
func (h *ReferenceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), h.kind, id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar datos maestros
// @Tags         references
// @Produce      json
// @Param        state   query  string  false  "ACTIVE | ARCHIVED (vacío = todos)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ReferenceListResponse
// @Router       /api/resources [get]
// @Router       /api/units [get]
// @Router       /api/clients [get]
func (h *ReferenceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.kind, c.Query("state"), pageQuery(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar dato maestro
// @Tags         references
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.UpdateReferenceRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ReferenceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/resources/{id} [put]
// @Router       /api/units/{id} [put]
// @Router       /api/clients/{id} [put]
func (h *ReferenceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateReferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), h.kind, id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Archive archiva el dato maestro; los documentos existentes lo conservan.
func (h *ReferenceHandler) Archive(c *fiber.Ctx) error {
	return h.changeState(c, h.uc.Archive)
}

// Restore vuelve a dejar el dato maestro activo.
func (h *ReferenceHandler) Restore(c *fiber.Ctx) error {
	return h.changeState(c, h.uc.Restore)
}

func (h *ReferenceHandler) changeState(c *fiber.Ctx, fn func(context.Context, entity.ReferenceKind, string) (*dto.ReferenceResponse, error)) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := fn(c.UserContext(), h.kind, id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
