package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/procurement"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	StoreUC       *usecase.StoreUseCase
	ProductUC     *usecase.ProductUseCase
	VendorUC      *usecase.VendorUseCase
	SalesUC       *sales.UseCase
	ProcurementUC *procurement.UseCase
	InventoryRpt  *inventory.ReportUseCase
	InventoryAdj  *inventory.UseCase
	AuditUC       *audit.QueryUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Aprobar es una capacidad separada de editar; recibir mercancía también.
	approver := RequireRole(entity.RoleAdmin, entity.RoleAprobador)
	receiver := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Vendors (protegido)
	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Get("/:id", vendorHandler.GetByID)

	// Sales (protegido; aprobar requiere rol aprobador)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/submit", saleHandler.Submit)
	salesGroup.Post("/:id/approve", approver, saleHandler.Approve)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Post("/:id/return", saleHandler.Return)

	// Purchase orders (protegido; aprobar requiere rol aprobador)
	pos := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.ProcurementUC)
	pos.Post("/", purchaseHandler.Create)
	pos.Get("/", purchaseHandler.List)
	pos.Get("/:id", purchaseHandler.GetByID)
	pos.Put("/:id", purchaseHandler.Update)
	pos.Post("/:id/approve", approver, purchaseHandler.Approve)
	pos.Post("/:id/send", purchaseHandler.Send)
	pos.Post("/:id/cancel", purchaseHandler.Cancel)
	pos.Post("/:id/close", purchaseHandler.Close)

	// GRNs (protegido; contabilizar requiere rol bodeguero)
	grns := protected.Group("/grns")
	grnHandler := NewGRNHandler(deps.ProcurementUC)
	grns.Post("/", grnHandler.Create)
	grns.Get("/", grnHandler.List)
	grns.Get("/:id", grnHandler.GetByID)
	grns.Post("/:id/post", receiver, grnHandler.Post)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryRpt, deps.InventoryAdj)
	invGroup.Get("/availability", inventoryHandler.GetAvailability)
	invGroup.Get("/near-expiry", inventoryHandler.ListNearExpiry)
	invGroup.Get("/lots/:id/ledger", inventoryHandler.GetLotLedger)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)

	// Audit trail (protegido)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", auditHandler.ListByEntity)
}
