package orderRoutes

import (
	orderController "urjakart/controllers/order"
	"urjakart/middleware"
	orderValidator "urjakart/validators/order"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/orders")

	orderGroup.Post("/", orderValidator.Create(), middleware.JWTMiddleware, orderController.CreateOrder)
	orderGroup.Get("/", middleware.JWTMiddleware, orderController.ListOrders)
	orderGroup.Get("/:id", middleware.JWTMiddleware, orderController.GetOrder)
}
