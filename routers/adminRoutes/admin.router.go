package adminRoutes

import (
	paymentController "urjakart/controllers/payment"
	upiSettingsController "urjakart/controllers/upiSettings"
	"urjakart/middleware"
	upiSettingsValidator "urjakart/validators/upiSettings"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/upi")

	settingsGroup := adminGroup.Group("/settings", middleware.JWTMiddleware, middleware.RequireRole("SUPER-ADMIN"))
	settingsGroup.Get("/", upiSettingsController.ListSettings)
	settingsGroup.Get("/:id", upiSettingsController.GetSettings)
	settingsGroup.Post("/", upiSettingsValidator.Create(), upiSettingsController.CreateSettings)
	settingsGroup.Put("/:id", upiSettingsValidator.Update(), upiSettingsController.UpdateSettings)
	settingsGroup.Put("/:id/activate", upiSettingsController.ActivateSettings)
	settingsGroup.Delete("/:id", upiSettingsController.DeleteSettings)

	adminGroup.Get("/analytics", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "SUPER-ADMIN"), paymentController.GetUpiAnalytics)
	adminGroup.Get("/transactions", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "SUPER-ADMIN"), paymentController.GetTransactionList)
}
