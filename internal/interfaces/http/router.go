package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/facturio-api/internal/application/analytics"
	"github.com/facturio/facturio-api/internal/application/auth"
	"github.com/facturio/facturio-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	InvoiceUC      *billing.InvoiceUseCase
	PDFUC          *billing.PDFUseCase
	CustomerUC     *billing.CustomerUseCase
	BankAccountUC  *billing.BankAccountUseCase
	SubscriptionUC *billing.SubscriptionUseCase
	DashboardUC    *analytics.DashboardUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Bank accounts (protegido)
	bankAccounts := protected.Group("/bank-accounts")
	bankAccountHandler := NewBankAccountHandler(deps.BankAccountUC)
	bankAccounts.Post("/", bankAccountHandler.Create)
	bankAccounts.Get("/", bankAccountHandler.List)
	bankAccounts.Put("/:id", bankAccountHandler.Update)
	bankAccounts.Delete("/:id", bankAccountHandler.Delete)

	// Subscription (protegido)
	subscription := protected.Group("/subscription")
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC)
	subscription.Get("/", subscriptionHandler.Get)
	subscription.Post("/sync", subscriptionHandler.Sync)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}
