package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// InventoryHandler maneja consultas de stock y ajustes manuales (protegido).
type InventoryHandler struct {
	reports *inventory.ReportUseCase
	adjust  *inventory.UseCase
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(reports *inventory.ReportUseCase, adjust *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{reports: reports, adjust: adjust}
}

// GetAvailability godoc
// @Summary      Disponible de un producto en un almacén
// @Description  Suma de deltas del ledger sobre los lotes del producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        store_id    query  string  true  "ID del almacén"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) GetAvailability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	storeID := c.Query("store_id")
	if productID == "" || storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y store_id son requeridos"})
	}
	out, err := h.reports.GetAvailability(c.Context(), companyID, productID, storeID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListNearExpiry godoc
// @Summary      Lotes próximos a vencer con stock disponible
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Filtrar por almacén. Vacío = todos."
// @Param        days      query  int     false  "Ventana de vencimiento en días"  default(90)
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.NearExpiryLotDTO
// @Router       /api/inventory/near-expiry [get]
func (h *InventoryHandler) ListNearExpiry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	days := c.QueryInt("days", 90)
	if days <= 0 {
		days = 90
	}
	out, err := h.reports.ListNearExpiry(c.Context(), companyID, c.Query("store_id"), days, pageFromQuery(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetLotLedger godoc
// @Summary      Historial de movimientos de un lote con su saldo plegado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.LotLedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id}/ledger [get]
func (h *InventoryHandler) GetLotLedger(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.reports.GetLotLedger(c.Context(), companyID, c.Params("id"), pageFromQuery(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock sobre un lote
// @Description  Delta firmado: positivo repone, negativo descuenta. Nunca deja
//
//	el disponible negativo ni por encima de lo recibido.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "lot_id, delta"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.LotID == "" || in.Delta.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lot_id y delta distinto de cero son requeridos"})
	}
	if err := h.adjust.Adjust(c.Context(), companyID, userID, in.LotID, in.Delta); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ajuste registrado"})
}
