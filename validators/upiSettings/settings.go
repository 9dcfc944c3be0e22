package upiSettingsValidator

import (
	"strings"

	"urjakart/middleware"
	"urjakart/models"

	"github.com/gofiber/fiber/v2"
)

// SettingsPayload is shared by create and update; update allows blank
// credential fields to mean "keep the stored value".
type SettingsPayload struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Provider       string `json:"provider"`
	ApiKey         string `json:"apiKey"`
	ApiSecret      string `json:"apiSecret"`
	MerchantID     string `json:"merchantId"`
	WebhookSecret  string `json:"webhookSecret"`
	IsTestMode     *bool  `json:"isTestMode"`
	IsActive       *bool  `json:"isActive"`
	WebhookURL     string `json:"webhookUrl"`
	TimeoutMinutes int    `json:"timeoutMinutes"`
	MaxRetries     int    `json:"maxRetries"`
}

func validateCommon(reqData *SettingsPayload, errors map[string]string) {
	if reqData.Provider != "" && !models.UpiProvider(reqData.Provider).IsValid() {
		errors["provider"] = "Provider must be one of razorpay, payu, phonepe, gpay, mock!"
	}
	if reqData.TimeoutMinutes < 0 || reqData.TimeoutMinutes > 60 {
		errors["timeoutMinutes"] = "Timeout must be between 0 and 60 minutes!"
	}
	if reqData.MaxRetries < 0 || reqData.MaxRetries > 10 {
		errors["maxRetries"] = "Max retries must be between 0 and 10!"
	}
}

// Create validates a new gateway configuration
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SettingsPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.Provider == "" {
			errors["provider"] = "Provider is required!"
		}
		if reqData.ApiKey == "" {
			errors["apiKey"] = "API key is required!"
		}
		if reqData.ApiSecret == "" {
			errors["apiSecret"] = "API secret is required!"
		}
		if reqData.MerchantID == "" {
			errors["merchantId"] = "Merchant ID is required!"
		}
		if reqData.WebhookSecret == "" {
			errors["webhookSecret"] = "Webhook secret is required!"
		}
		validateCommon(reqData, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}

// Update validates changes to an existing gateway configuration
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SettingsPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != "" && len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		validateCommon(reqData, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}
