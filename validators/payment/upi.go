package paymentValidator

import (
	"urjakart/middleware"
	"urjakart/utils"

	"github.com/gofiber/fiber/v2"
)

// Initiate validates a UPI collect initiation request
func Initiate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID uint   `json:"orderId"`
			Vpa     string `json:"vpa"`
			SaveVpa bool   `json:"saveVpa"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderID == 0 {
			errors["orderId"] = "Order ID is required!"
		}
		if reqData.Vpa == "" {
			errors["vpa"] = "VPA is required!"
		} else if !utils.ValidateVPA(reqData.Vpa) {
			errors["vpa"] = "Invalid VPA format! Expected name@bank."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInitiate", reqData)
		return c.Next()
	}
}
