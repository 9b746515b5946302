package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tiendafacil/tienda-api/internal/application/auth"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/application/restock"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Ledger     *inventory.StockLedger
	Adjustment *inventory.ManualAdjustmentProcessor
	RestockUC  *restock.RestockOrderUseCase
	Receiving  *restock.ReceivingProcessor
	PDFUC      *restock.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de inventario (protegido; ajustes solo admin/inventario)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Adjustment)
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin, entity.RoleInventario), inventoryHandler.CreateAdjustment)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Órdenes de compra (protegido; escritura solo admin/inventario)
	orders := protected.Group("/restock-orders")
	restockHandler := NewRestockHandler(deps.RestockUC, deps.Receiving, deps.PDFUC)
	write := RequireRole(entity.RoleAdmin, entity.RoleInventario)
	orders.Post("/", write, restockHandler.Create)
	orders.Get("/", restockHandler.List)
	orders.Get("/:id", restockHandler.GetByID)
	orders.Patch("/:id", write, restockHandler.Update)
	orders.Post("/:id/cancel", write, restockHandler.Cancel)
	orders.Delete("/:id", write, restockHandler.Delete)
	orders.Post("/:id/receive", write, restockHandler.Receive)
	orders.Get("/:id/pdf", restockHandler.DownloadPDF)
}
