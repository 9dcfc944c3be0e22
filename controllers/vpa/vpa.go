package vpaController

import (
	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AddVpa saves a payment address for the authenticated user
func AddVpa(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedVpa").(*struct {
		Vpa       string `json:"vpa"`
		Label     string `json:"label"`
		IsDefault bool   `json:"isDefault"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var existing models.UserSavedVpa
	if err := db.Where("user_id = ? AND vpa = ?", userId, reqData.Vpa).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This VPA is already saved!", nil)
	}

	saved := models.UserSavedVpa{
		UserID:    userId,
		Vpa:       reqData.Vpa,
		Label:     reqData.Label,
		IsDefault: reqData.IsDefault,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if reqData.IsDefault {
			if err := tx.Model(&models.UserSavedVpa{}).
				Where("user_id = ? AND is_default = true", userId).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&saved).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save VPA!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "VPA saved!", saved)
}

// ListVpas returns the user's saved payment addresses, default first
func ListVpas(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var vpas []models.UserSavedVpa
	if err := database.Database.Db.
		Where("user_id = ?", userId).
		Order("is_default DESC, created_at DESC").
		Find(&vpas).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch VPAs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Saved VPAs fetched!", vpas)
}

// SetDefaultVpa flips the default flag to the given VPA. Clearing the old
// default and setting the new one happen in one DB transaction so a
// concurrent reader never sees zero or two defaults.
func SetDefaultVpa(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	vpaID, err := c.ParamsInt("id")
	if err != nil || vpaID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid VPA ID!", nil)
	}

	db := database.Database.Db

	var saved models.UserSavedVpa
	if err := db.Where("id = ? AND user_id = ?", vpaID, userId).First(&saved).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Saved VPA not found!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSavedVpa{}).
			Where("user_id = ? AND is_default = true AND id != ?", userId, saved.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&saved).Update("is_default", true).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to set default VPA!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Default VPA updated!", fiber.Map{
		"id":  saved.ID,
		"vpa": saved.Vpa,
	})
}

// DeleteVpa hard-deletes a saved payment address
func DeleteVpa(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	vpaID, err := c.ParamsInt("id")
	if err != nil || vpaID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid VPA ID!", nil)
	}

	db := database.Database.Db

	var saved models.UserSavedVpa
	if err := db.Where("id = ? AND user_id = ?", vpaID, userId).First(&saved).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Saved VPA not found!", nil)
	}

	if err := db.Unscoped().Delete(&saved).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete VPA!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Saved VPA deleted!", nil)
}
