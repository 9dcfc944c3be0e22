package upiSettingsController

import (
	"errors"
	"log"

	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"
	"urjakart/utils"
	upiSettingsValidator "urjakart/validators/upiSettings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	errSettingsNotFound = errors.New("configuration not found")
	errLastSettingsRow  = errors.New("last gateway configuration")
)

// encryptInto fills the credential columns of a settings row from the
// plaintext payload. Blank payload fields leave the stored ciphertext alone.
func encryptInto(settings *models.UpiSettings, reqData *upiSettingsValidator.SettingsPayload) error {
	var err error
	if reqData.ApiKey != "" {
		if settings.ApiKey, err = utils.EncryptSecret(reqData.ApiKey); err != nil {
			return err
		}
	}
	if reqData.ApiSecret != "" {
		if settings.ApiSecret, err = utils.EncryptSecret(reqData.ApiSecret); err != nil {
			return err
		}
	}
	if reqData.MerchantID != "" {
		if settings.MerchantID, err = utils.EncryptSecret(reqData.MerchantID); err != nil {
			return err
		}
	}
	if reqData.WebhookSecret != "" {
		if settings.WebhookSecret, err = utils.EncryptSecret(reqData.WebhookSecret); err != nil {
			return err
		}
	}
	return nil
}

// deactivateOthers clears the active flag everywhere else. Runs inside the
// same transaction that activates a row, so there is never a window with two
// active configurations.
func deactivateOthers(tx *gorm.DB, exceptID uint) error {
	return tx.Model(&models.UpiSettings{}).
		Where("id != ? AND is_active = true", exceptID).
		Update("is_active", false).Error
}

// CreateSettings adds a gateway configuration (Super-admin only)
func CreateSettings(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSettings").(*upiSettingsValidator.SettingsPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var existing models.UpiSettings
	if err := db.Where("name = ? AND is_deleted = false", reqData.Name).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A configuration with this name already exists!", nil)
	}

	settings := models.UpiSettings{
		Name:           reqData.Name,
		Description:    reqData.Description,
		Provider:       models.UpiProvider(reqData.Provider),
		WebhookURL:     reqData.WebhookURL,
		TimeoutMinutes: reqData.TimeoutMinutes,
		MaxRetries:     reqData.MaxRetries,
	}
	if settings.TimeoutMinutes == 0 {
		settings.TimeoutMinutes = 5
	}
	if reqData.IsTestMode != nil {
		settings.IsTestMode = *reqData.IsTestMode
	} else {
		settings.IsTestMode = true
	}
	if reqData.IsActive != nil {
		settings.IsActive = *reqData.IsActive
	}

	if err := encryptInto(&settings, reqData); err != nil {
		log.Printf("Failed to encrypt gateway credentials: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to secure credentials!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}
		if settings.IsActive {
			return deactivateOthers(tx, settings.ID)
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create configuration!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Gateway configuration created!", settings)
}

// ListSettings returns all configurations. Credential columns are excluded
// by the model's json tags; plaintext is never returned anywhere.
func ListSettings(c *fiber.Ctx) error {
	var settings []models.UpiSettings
	if err := database.Database.Db.
		Where("is_deleted = false").
		Order("is_active DESC, created_at DESC").
		Find(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch configurations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gateway configurations fetched!", settings)
}

// GetSettings returns one configuration by id
func GetSettings(c *fiber.Ctx) error {
	settingsID, err := c.ParamsInt("id")
	if err != nil || settingsID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid configuration ID!", nil)
	}

	var settings models.UpiSettings
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false", settingsID).
		First(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Configuration not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gateway configuration fetched!", settings)
}

// UpdateSettings edits a configuration; activating it deactivates the rest
// in the same transaction
func UpdateSettings(c *fiber.Ctx) error {
	settingsID, err := c.ParamsInt("id")
	if err != nil || settingsID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid configuration ID!", nil)
	}

	reqData, ok := c.Locals("validatedSettings").(*upiSettingsValidator.SettingsPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var settings models.UpiSettings
	if err := db.Where("id = ? AND is_deleted = false", settingsID).First(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Configuration not found!", nil)
	}

	if reqData.Name != "" {
		settings.Name = reqData.Name
	}
	if reqData.Description != "" {
		settings.Description = reqData.Description
	}
	if reqData.Provider != "" {
		settings.Provider = models.UpiProvider(reqData.Provider)
	}
	if reqData.WebhookURL != "" {
		settings.WebhookURL = reqData.WebhookURL
	}
	if reqData.TimeoutMinutes > 0 {
		settings.TimeoutMinutes = reqData.TimeoutMinutes
	}
	if reqData.MaxRetries > 0 {
		settings.MaxRetries = reqData.MaxRetries
	}
	if reqData.IsTestMode != nil {
		settings.IsTestMode = *reqData.IsTestMode
	}
	if reqData.IsActive != nil {
		settings.IsActive = *reqData.IsActive
	}

	if err := encryptInto(&settings, reqData); err != nil {
		log.Printf("Failed to encrypt gateway credentials: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to secure credentials!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&settings).Error; err != nil {
			return err
		}
		if settings.IsActive {
			return deactivateOthers(tx, settings.ID)
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update configuration!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gateway configuration updated!", settings)
}

// ActivateSettings makes one configuration the active gateway
func ActivateSettings(c *fiber.Ctx) error {
	settingsID, err := c.ParamsInt("id")
	if err != nil || settingsID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid configuration ID!", nil)
	}

	db := database.Database.Db

	var settings models.UpiSettings
	if err := db.Where("id = ? AND is_deleted = false", settingsID).First(&settings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Configuration not found!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := deactivateOthers(tx, settings.ID); err != nil {
			return err
		}
		return tx.Model(&settings).Update("is_active", true).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to activate configuration!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gateway configuration activated!", fiber.Map{
		"id":       settings.ID,
		"provider": settings.Provider,
	})
}

// DeleteSettings soft-deletes a configuration. The last remaining row is
// protected so the system never ends up with zero usable gateways.
func DeleteSettings(c *fiber.Ctx) error {
	settingsID, err := c.ParamsInt("id")
	if err != nil || settingsID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid configuration ID!", nil)
	}

	db := database.Database.Db

	// The count and the soft delete share one transaction so concurrent
	// deletes cannot drop the row count to zero.
	err = db.Transaction(func(tx *gorm.DB) error {
		var settings models.UpiSettings
		if err := tx.Where("id = ? AND is_deleted = false", settingsID).First(&settings).Error; err != nil {
			return errSettingsNotFound
		}

		var remaining int64
		if err := tx.Model(&models.UpiSettings{}).Where("is_deleted = false").Count(&remaining).Error; err != nil {
			return err
		}
		if remaining <= 1 {
			return errLastSettingsRow
		}

		updates := map[string]interface{}{"is_deleted": true, "is_active": false}
		return tx.Model(&settings).Updates(updates).Error
	})

	switch err {
	case nil:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Gateway configuration deleted!", nil)
	case errSettingsNotFound:
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Configuration not found!", nil)
	case errLastSettingsRow:
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot delete the last gateway configuration!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete configuration!", nil)
	}
}
