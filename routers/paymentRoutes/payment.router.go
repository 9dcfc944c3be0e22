package paymentRoutes

import (
	paymentController "urjakart/controllers/payment"
	"urjakart/middleware"
	paymentValidator "urjakart/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments/upi")

	// Provider callback carries its own signature, no JWT
	paymentGroup.Post("/webhook", paymentController.Webhook)

	paymentGroup.Post("/initiate", paymentValidator.Initiate(), middleware.JWTMiddleware, paymentController.InitiatePayment)
	paymentGroup.Get("/status/:orderId", middleware.JWTMiddleware, paymentController.PaymentStatus)
	paymentGroup.Post("/cancel/:orderId", middleware.JWTMiddleware, paymentController.CancelPayment)

	paymentGroup.Post("/refund/:orderId", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "SUPER-ADMIN"), paymentController.RefundPayment)
}
