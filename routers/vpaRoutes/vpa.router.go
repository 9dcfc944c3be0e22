package vpaRoutes

import (
	vpaController "urjakart/controllers/vpa"
	"urjakart/middleware"
	vpaValidator "urjakart/validators/vpa"

	"github.com/gofiber/fiber/v2"
)

func SetupVpaRoutes(app *fiber.App) {
	vpaGroup := app.Group("/user/vpas")

	vpaGroup.Get("/", middleware.JWTMiddleware, vpaController.ListVpas)
	vpaGroup.Post("/", vpaValidator.Add(), middleware.JWTMiddleware, vpaController.AddVpa)
	vpaGroup.Put("/:id/default", middleware.JWTMiddleware, vpaController.SetDefaultVpa)
	vpaGroup.Delete("/:id", middleware.JWTMiddleware, vpaController.DeleteVpa)
}
