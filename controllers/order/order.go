package orderController

import (
	"fmt"
	"strings"
	"time"

	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// CreateOrder records an order awaiting payment. Cart and catalogue live in
// the storefront; this service only needs the total to collect.
func CreateOrder(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedOrder").(*struct {
		TotalAmount     float64 `json:"totalAmount"`
		ShippingAddress string  `json:"shippingAddress"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	order := models.Order{
		UserID:          userId,
		OrderNumber:     newOrderNumber(),
		TotalAmount:     reqData.TotalAmount,
		Status:          models.OrderStatusPending,
		ShippingAddress: reqData.ShippingAddress,
	}

	if err := database.Database.Db.Create(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created!", order)
}

// GetOrder returns one of the user's orders
func GetOrder(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	var order models.Order
	if err := database.Database.Db.
		Where("id = ? AND user_id = ? AND is_deleted = false", orderID, userId).
		First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched!", order)
}

// ListOrders returns the user's orders, newest first
func ListOrders(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Order{}).Where("user_id = ? AND is_deleted = false", userId)

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch orders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
