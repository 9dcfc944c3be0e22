package orderValidator

import (
	"urjakart/middleware"

	"github.com/gofiber/fiber/v2"
)

// Create validates a new order request
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TotalAmount     float64 `json:"totalAmount"`
			ShippingAddress string  `json:"shippingAddress"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TotalAmount <= 0 {
			errors["totalAmount"] = "Total amount must be greater than 0!"
		}
		if reqData.ShippingAddress == "" {
			errors["shippingAddress"] = "Shipping address is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}
