package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// AuditHandler expone el rastro de auditoría (protegido).
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler de auditoría.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// ListByEntity godoc
// @Summary      Rastro de auditoría de una entidad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity_type  query  string  true   "Sale, PurchaseOrder o GoodsReceiptNote"
// @Param        entity_id    query  string  true   "ID de la entidad"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}   audit.EntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) ListByEntity(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.ListByEntity(companyID, c.Query("entity_type"), c.Query("entity_id"), pageFromQuery(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
