package vpaValidator

import (
	"urjakart/middleware"
	"urjakart/utils"

	"github.com/gofiber/fiber/v2"
)

// Add validates a saved-VPA creation request
func Add() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Vpa       string `json:"vpa"`
			Label     string `json:"label"`
			IsDefault bool   `json:"isDefault"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Vpa == "" {
			errors["vpa"] = "VPA is required!"
		} else if !utils.ValidateVPA(reqData.Vpa) {
			errors["vpa"] = "Invalid VPA format! Expected name@bank."
		}
		if len(reqData.Label) > 100 {
			errors["label"] = "Label must be at most 100 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVpa", reqData)
		return c.Next()
	}
}
