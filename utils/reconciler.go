package utils

import (
	"fmt"
	"log"
	"time"

	"urjakart/config"
	"urjakart/database"
	"urjakart/models"

	"github.com/robfig/cron/v3"
)

// logReconciler logs sweep events with timestamp
func logReconciler(message string) {
	log.Printf("[UPI-RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// SweepStalePayments closes out transactions stuck in PENDING past the
// configured payment window. The client UI gives up on its own; this is what
// keeps the server-side row and the order from staying stuck forever. The
// conditional status filter means a webhook landing mid-sweep still wins.
func SweepStalePayments() {
	db := database.Database.Db

	timeoutMinutes := config.AppConfig.DefaultTimeout
	var settings models.UpiSettings
	if err := db.Where("is_active = true AND is_deleted = false").First(&settings).Error; err == nil && settings.TimeoutMinutes > 0 {
		timeoutMinutes = settings.TimeoutMinutes
	}

	cutoff := time.Now().Add(-time.Duration(timeoutMinutes) * time.Minute)

	result := db.Model(&models.UpiTransaction{}).
		Where("status = ? AND created_at < ?", models.UpiStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":         models.UpiStatusFailed,
			"failure_reason": "Timed out waiting for provider confirmation",
		})
	if result.Error != nil {
		logReconciler("Error sweeping stale payments: " + result.Error.Error())
		return
	}

	if result.RowsAffected > 0 {
		logReconciler(fmt.Sprintf("Marked %d stale payment(s) FAILED", result.RowsAffected))
	}
}

// StartReconciliationScheduler registers the stale-payment sweep. Runs every
// minute by default; RECONCILE_CRON overrides the schedule.
func StartReconciliationScheduler(c *cron.Cron) {
	spec := config.AppConfig.ReconcileCron
	if spec == "" {
		spec = "* * * * *"
	}
	if _, err := c.AddFunc(spec, SweepStalePayments); err != nil {
		log.Fatalf("Invalid RECONCILE_CRON %q: %v", spec, err)
	}
	logReconciler("Reconciliation scheduler started with spec " + spec)
}
