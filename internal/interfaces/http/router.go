package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Payments       paymentService
	Receipts       receiptDownloader
	JWTSecret      string
	MetricsHandler http.Handler // nil: sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	paymentHandler := NewPaymentHandler(deps.Payments, deps.Receipts)

	// /conditions antes de /:id
	payments := api.Group("/payments")
	payments.Post("/", paymentHandler.Create)
	payments.Get("/conditions", paymentHandler.Conditions)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Get("/:id/receipt", paymentHandler.Receipt)

	suppliers := api.Group("/suppliers")
	suppliers.Get("/:id/payments", paymentHandler.ListBySupplier)
	suppliers.Get("/:id/payments/last-next", paymentHandler.LastAndNext)
}
