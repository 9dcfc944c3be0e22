package paymentController

import (
	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

type statusSlice struct {
	Status models.UpiTransactionStatus `json:"status"`
	Count  int64                       `json:"count"`
	Volume float64                     `json:"volume"`
}

// GetUpiAnalytics returns aggregate success/failure/volume stats over the
// transaction table (Admin only). Read-only; derived entirely from
// upi_transactions rows.
func GetUpiAnalytics(c *fiber.Ctx) error {
	db := database.Database.Db

	var slices []statusSlice
	if err := db.Model(&models.UpiTransaction{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as volume").
		Group("status").
		Scan(&slices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	var total, success, failed int64
	var totalVolume, successVolume float64
	for _, s := range slices {
		total += s.Count
		totalVolume += s.Volume
		switch s.Status {
		case models.UpiStatusSuccess, models.UpiStatusRefunded:
			success += s.Count
			successVolume += s.Volume
		case models.UpiStatusFailed:
			failed += s.Count
		}
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(success) / float64(total) * 100
	}

	today := now.BeginningOfDay()
	var todayCount int64
	var todayVolume float64
	db.Model(&models.UpiTransaction{}).
		Where("created_at >= ?", today).
		Count(&todayCount)
	db.Model(&models.UpiTransaction{}).
		Where("created_at >= ? AND status = ?", today, models.UpiStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&todayVolume)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "UPI analytics fetched!", fiber.Map{
		"byStatus":      slices,
		"total":         total,
		"successful":    success,
		"failed":        failed,
		"successRate":   successRate,
		"totalVolume":   totalVolume,
		"successVolume": successVolume,
		"today": fiber.Map{
			"transactions": todayCount,
			"volume":       todayVolume,
		},
	})
}

// GetTransactionList returns paginated transactions for the admin console
func GetTransactionList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.UpiTransaction{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.UpiTransaction
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
