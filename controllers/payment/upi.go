package paymentController

import (
	"fmt"
	"log"
	"time"

	"urjakart/config"
	"urjakart/database"
	"urjakart/gateway"
	"urjakart/middleware"
	"urjakart/models"
	"urjakart/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActiveSettings returns the single active gateway configuration
func ActiveSettings(db *gorm.DB) (*models.UpiSettings, error) {
	var settings models.UpiSettings
	if err := db.Where("is_active = true AND is_deleted = false").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// decryptCredentials opens the settings row's credential columns for one
// gateway call. The returned struct must stay on the stack of the caller.
func decryptCredentials(settings *models.UpiSettings) (gateway.Credentials, error) {
	var creds gateway.Credentials
	var err error

	if creds.ApiKey, err = utils.DecryptSecret(settings.ApiKey); err != nil {
		return creds, fmt.Errorf("api key: %v", err)
	}
	if creds.ApiSecret, err = utils.DecryptSecret(settings.ApiSecret); err != nil {
		return creds, fmt.Errorf("api secret: %v", err)
	}
	if creds.MerchantID, err = utils.DecryptSecret(settings.MerchantID); err != nil {
		return creds, fmt.Errorf("merchant id: %v", err)
	}
	if creds.WebhookSecret, err = utils.DecryptSecret(settings.WebhookSecret); err != nil {
		return creds, fmt.Errorf("webhook secret: %v", err)
	}
	creds.TestMode = settings.IsTestMode
	return creds, nil
}

// applyTerminal moves a transaction from `from` to `to` with a conditional
// update. Returns false when another writer got there first.
func applyTerminal(db *gorm.DB, txnID uint, from, to models.UpiTransactionStatus, reason string, rawPayload []byte) bool {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if reason != "" {
		updates["failure_reason"] = reason
	}
	if len(rawPayload) > 0 {
		updates["webhook_payload_raw"] = datatypes.JSON(rawPayload)
	}

	result := db.Model(&models.UpiTransaction{}).
		Where("id = ? AND status = ?", txnID, from).
		Updates(updates)
	return result.Error == nil && result.RowsAffected == 1
}

// settleOrder flips the order row after a terminal payment update. Also a
// conditional update so a late webhook cannot overwrite a refunded order.
func settleOrder(db *gorm.DB, orderID uint, from, to models.OrderStatus) {
	if err := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to).Error; err != nil {
		log.Printf("Failed to move order %d to %s: %v", orderID, to, err)
	}
}

// InitiatePayment creates a PENDING transaction for the order and fires the
// collect request at the active provider
func InitiatePayment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedInitiate").(*struct {
		OrderID uint   `json:"orderId"`
		Vpa     string `json:"vpa"`
		SaveVpa bool   `json:"saveVpa"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var order models.Order
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", reqData.OrderID, userId).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}
	if order.Status != models.OrderStatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order is not awaiting payment!", nil)
	}

	// One non-terminal transaction per order
	var pending models.UpiTransaction
	if err := db.Where("order_id = ? AND status = ?", order.ID, models.UpiStatusPending).First(&pending).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A payment for this order is already in progress!", fiber.Map{
			"transactionId": pending.ID,
		})
	}

	settings, err := ActiveSettings(db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "No payment gateway is configured!", nil)
	}

	provider, err := gateway.Get(settings.Provider)
	if err != nil {
		log.Printf("Active settings %d holds unknown provider %s", settings.ID, settings.Provider)
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment gateway misconfigured!", nil)
	}

	creds, err := decryptCredentials(settings)
	if err != nil {
		log.Printf("Failed to decrypt gateway credentials: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment gateway misconfigured!", nil)
	}

	transaction := models.UpiTransaction{
		OrderID:       order.ID,
		UserID:        userId,
		Vpa:           reqData.Vpa,
		Amount:        order.TotalAmount,
		Status:        models.UpiStatusPending,
		MerchantTxnID: "UPI-" + uuid.NewString(),
		Provider:      string(settings.Provider),
	}
	if err := db.Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create transaction!", nil)
	}

	webhookURL := settings.WebhookURL
	if webhookURL == "" {
		webhookURL = config.AppConfig.BaseURL + "/payments/upi/webhook"
	}

	providerRef, err := provider.Collect(creds, gateway.CollectRequest{
		MerchantTxnID: transaction.MerchantTxnID,
		Amount:        transaction.Amount,
		Vpa:           transaction.Vpa,
		CallbackURL:   webhookURL,
		Note:          "Urjakart order " + order.OrderNumber,
	})
	if err != nil {
		// No automatic retry. A replayed collect request could double-charge,
		// so the user has to start over.
		log.Printf("Collect request failed for txn %d: %v", transaction.ID, err)
		applyTerminal(db, transaction.ID, models.UpiStatusPending, models.UpiStatusFailed, "Provider rejected collect request", nil)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment failed. Please try again.", fiber.Map{
			"transactionId": transaction.ID,
			"status":        models.UpiStatusFailed,
		})
	}

	if err := db.Model(&transaction).Update("provider_reference_id", providerRef).Error; err != nil {
		log.Printf("Failed to store provider reference for txn %d: %v", transaction.ID, err)
	}

	if reqData.SaveVpa {
		saved := models.UserSavedVpa{UserID: userId, Vpa: reqData.Vpa}
		db.Where("user_id = ? AND vpa = ?", userId, reqData.Vpa).FirstOrCreate(&saved)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment initiated. Approve the collect request in your UPI app.", fiber.Map{
		"transactionId":       transaction.ID,
		"merchantTxnId":       transaction.MerchantTxnID,
		"providerReferenceId": providerRef,
		"status":              models.UpiStatusPending,
		"timeoutMinutes":      settings.TimeoutMinutes,
	})
}

// PaymentStatus returns the current state of the latest transaction on an
// order. Clients poll this while PENDING, bounded by timeoutMinutes.
func PaymentStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	db := database.Database.Db

	var transaction models.UpiTransaction
	if err := db.Where("order_id = ? AND user_id = ?", orderID, userId).
		Order("created_at DESC").
		First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No payment found for this order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", fiber.Map{
		"transactionId": transaction.ID,
		"orderId":       transaction.OrderID,
		"status":        transaction.Status,
		"failureReason": transaction.FailureReason,
		"updatedAt":     transaction.UpdatedAt,
	})
}

// Webhook handles the provider's signed async callback. Signature mismatch
// rejects the request with no state change; a duplicate terminal update is a
// silent no-op.
func Webhook(c *fiber.Ctx) error {
	db := database.Database.Db
	body := c.Body()

	settings, err := ActiveSettings(db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "No payment gateway is configured!", nil)
	}

	provider, err := gateway.Get(settings.Provider)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment gateway misconfigured!", nil)
	}

	creds, err := decryptCredentials(settings)
	if err != nil {
		log.Printf("Failed to decrypt gateway credentials: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment gateway misconfigured!", nil)
	}

	signature := c.Get(provider.SignatureHeader())
	if !provider.VerifyWebhookSignature(creds, body, signature) {
		log.Printf("SECURITY: webhook signature mismatch from %s (provider %s)", c.IP(), settings.Provider)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
	}

	event, err := provider.ParseWebhook(body)
	if err != nil {
		log.Printf("Unparseable webhook from %s: %v", settings.Provider, err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	// Rows awaiting a collect response carry an empty reference; never let
	// those match.
	var transaction models.UpiTransaction
	if err := db.Where("provider_reference_id = ? AND provider_reference_id <> ''", event.ProviderReferenceID).First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown transaction reference!", nil)
	}

	applied := applyTerminal(db, transaction.ID, models.UpiStatusPending, event.Status, event.Reason, body)
	if !applied {
		// First terminal write won; this delivery changes nothing.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction already settled.", fiber.Map{
			"transactionId": transaction.ID,
		})
	}

	if event.Status == models.UpiStatusSuccess {
		settleOrder(db, transaction.OrderID, models.OrderStatusPending, models.OrderStatusPaid)

		go func(txn models.UpiTransaction) {
			var user models.User
			var order models.Order
			if err := database.Database.Db.First(&user, txn.UserID).Error; err != nil {
				return
			}
			if err := database.Database.Db.First(&order, txn.OrderID).Error; err != nil {
				return
			}
			utils.SendPaymentReceiptEmail(user.Email, user.Name, order.OrderNumber, txn.Amount, txn.MerchantTxnID)
		}(transaction)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", fiber.Map{
		"transactionId": transaction.ID,
		"status":        event.Status,
	})
}

// CancelPayment lets the user abandon an in-flight collect request. Only a
// still-PENDING transaction can be cancelled; a terminal state is never
// overridden.
func CancelPayment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	db := database.Database.Db

	var transaction models.UpiTransaction
	if err := db.Where("order_id = ? AND user_id = ?", orderID, userId).
		Order("created_at DESC").
		First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No payment found for this order!", nil)
	}

	if !applyTerminal(db, transaction.ID, models.UpiStatusPending, models.UpiStatusFailed, "Cancelled by user", nil) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment has already been settled!", fiber.Map{
			"transactionId": transaction.ID,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment cancelled.", fiber.Map{
		"transactionId": transaction.ID,
		"status":        models.UpiStatusFailed,
	})
}

// RefundPayment moves a successful transaction to REFUNDED (Admin only).
// The actual money movement happens on the provider dashboard; this records
// the outcome and releases the order.
func RefundPayment(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	db := database.Database.Db

	var transaction models.UpiTransaction
	if err := db.Where("order_id = ? AND status = ?", orderID, models.UpiStatusSuccess).
		First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No successful payment found for this order!", nil)
	}

	if !applyTerminal(db, transaction.ID, models.UpiStatusSuccess, models.UpiStatusRefunded, "Refunded by admin", nil) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction is no longer refundable!", nil)
	}

	settleOrder(db, transaction.OrderID, models.OrderStatusPaid, models.OrderStatusRefunded)

	go func(txn models.UpiTransaction) {
		var user models.User
		var order models.Order
		if err := database.Database.Db.First(&user, txn.UserID).Error; err != nil {
			return
		}
		if err := database.Database.Db.First(&order, txn.OrderID).Error; err != nil {
			return
		}
		utils.SendRefundEmail(user.Email, user.Name, order.OrderNumber, txn.Amount)
	}(transaction)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment refunded.", fiber.Map{
		"transactionId": transaction.ID,
		"status":        models.UpiStatusRefunded,
	})
}
