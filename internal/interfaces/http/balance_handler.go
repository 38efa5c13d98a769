package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// BalanceHandler consulta de saldos (solo lectura).
type BalanceHandler struct {
	svc  *inventory.BalanceService
	errs errorWriter
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(svc *inventory.BalanceService, log *logger.Logger) *BalanceHandler {
	return &BalanceHandler{svc: svc, errs: newErrorWriter(log)}
}

// List godoc
// @Summary      Saldos actuales por recurso y unidad
// @Tags         balances
// @Produce      json
// @Param        resource_id  query  []string  false  "Filtrar por recurso (repetible o separado por comas)"
// @Param        unit_id      query  []string  false  "Filtrar por unidad"
// @Param        non_zero     query  bool      false  "Omitir saldos en cero"
// @Success      200  {array}   dto.BalanceResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/balances [get]
func (h *BalanceHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.GetBalances(c.UserContext(), dto.BalanceQuery{
		ResourceIDs: queryList(c, "resource_id"),
		UnitIDs:     queryList(c, "unit_id"),
		NonZeroOnly: c.QueryBool("non_zero", false),
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
