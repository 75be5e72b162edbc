package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/ordering"
	"github.com/jhoicas/gestion-fournitures/internal/application/usecase"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/gestion-fournitures/internal/interfaces/http"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SupplyTypeUC  *usecase.SupplyTypeUseCase
	SupplyUC      *usecase.SupplyUseCase
	Ledger        *inventory.StockLedger
	Journal       *inventory.MovementJournal
	Replenishment *inventory.ReplenishmentUseCase
	OrderUC       *ordering.OrderUseCase
	Numbers       *numbering.Generator
	Log           *logger.Logger
	JWTSecret     string
	JWTIssuer     string
	DocsPath      string // swagger.json; vacío o inexistente = sin /docs
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	app.Use(RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if deps.DocsPath != "" {
		if _, err := os.Stat(deps.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.DocsPath,
				Path:     "docs",
				Title:    "Gestion des fournitures API",
			}))
		}
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	adminOnly := RequireRole(RoleAdmin)

	// Tipos de fourniture
	types := protected.Group("/supply-types")
	typeHandler := NewSupplyTypeHandler(deps.SupplyTypeUC, log)
	types.Get("/", typeHandler.List)
	types.Post("/", adminOnly, typeHandler.Create)
	types.Delete("/:id", adminOnly, typeHandler.Delete)

	// Fournitures
	supplies := protected.Group("/supplies")
	supplyHandler := NewSupplyHandler(deps.SupplyUC, deps.Ledger, deps.Numbers, log)
	invHandler := NewInventoryHandler(deps.Ledger, deps.Journal, deps.Replenishment, log)
	supplies.Get("/next-reference", supplyHandler.NextReference)
	supplies.Post("/", supplyHandler.Create)
	supplies.Get("/", supplyHandler.List)
	supplies.Get("/:id", supplyHandler.GetByID)
	supplies.Put("/:id", supplyHandler.Update)
	supplies.Post("/:id/deactivate", supplyHandler.Deactivate)
	supplies.Post("/:id/activate", supplyHandler.Activate)
	supplies.Get("/:id/reorder-quantity", supplyHandler.ReorderQuantity)
	supplies.Post("/:id/receive", invHandler.Receive)
	supplies.Post("/:id/issue", invHandler.Issue)
	supplies.Post("/:id/adjust", invHandler.Adjust)
	supplies.Get("/:id/movements", invHandler.ListMovements)

	// Movimientos e inventario
	protected.Post("/movements", invHandler.RegisterMovement)
	protected.Get("/movements", invHandler.ListMovements)
	protected.Get("/inventory/replenishment-list", invHandler.GetReplenishmentList)

	// Pedidos
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Numbers, log)
	orders.Get("/next-number", orderHandler.NextNumber)
	orders.Get("/overdue", orderHandler.Overdue)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/validate", adminOnly, orderHandler.Validate)
	orders.Post("/:id/in-transit", orderHandler.MarkInTransit)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)
}
