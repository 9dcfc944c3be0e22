package upiSettingsController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"urjakart/config"
	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"
	adminRoutes "urjakart/routers/adminRoutes"
	"urjakart/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{
		JWTKey:        "test-secret",
		SaltRound:     4,
		EncryptionKey: strings.Repeat("cd", 32),
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	adminRoutes.SetupAdminRoutes(app)
	return app
}

func createSuperAdmin(t *testing.T) string {
	user := models.User{
		Name:     "Root Admin",
		Email:    fmt.Sprintf("root-%d@example.com", time.Now().UnixNano()),
		Role:     "SUPER-ADMIN",
		Password: "irrelevant",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func settingsPayload(name string, active bool) fiber.Map {
	return fiber.Map{
		"name":           name,
		"provider":       "mock",
		"apiKey":         "rzp_test_key",
		"apiSecret":      "rzp_test_secret",
		"merchantId":     "MERCH42",
		"webhookSecret":  "whsec_value",
		"isTestMode":     true,
		"isActive":       active,
		"timeoutMinutes": 5,
		"maxRetries":     3,
	}
}

func countActive(t *testing.T) int64 {
	var count int64
	database.Database.Db.Model(&models.UpiSettings{}).
		Where("is_active = true AND is_deleted = false").
		Count(&count)
	return count
}

func TestCreateSettings_EncryptsCredentials(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	resp := doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("primary", true))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var stored models.UpiSettings
	require.NoError(t, database.Database.Db.Where("name = ?", "primary").First(&stored).Error)

	// Stored values are ciphertext, and round-trip back to the input
	assert.NotEqual(t, "rzp_test_key", stored.ApiKey)
	plain, err := utils.DecryptSecret(stored.ApiKey)
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", plain)
}

func TestCreateSettings_ResponseNeverLeaksSecrets(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	resp := doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("primary", true))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/admin/upi/settings/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "rzp_test_key")
	assert.NotContains(t, body, "rzp_test_secret")
	assert.NotContains(t, body, "whsec_value")
	assert.NotContains(t, body, "apiKey")
}

func TestActivation_ExactlyOneActive(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	require.Equal(t, fiber.StatusCreated, doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("first", true)).StatusCode)
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("second", true)).StatusCode)

	assert.Equal(t, int64(1), countActive(t))

	var active models.UpiSettings
	require.NoError(t, database.Database.Db.Where("is_active = true").First(&active).Error)
	assert.Equal(t, "second", active.Name)

	// Explicit activate flips back
	var first models.UpiSettings
	require.NoError(t, database.Database.Db.Where("name = ?", "first").First(&first).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/admin/upi/settings/%d/activate", first.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), countActive(t))

	active = models.UpiSettings{}
	require.NoError(t, database.Database.Db.Where("is_active = true").First(&active).Error)
	assert.Equal(t, "first", active.Name)
}

func TestDeleteSettings_LastRowGuarded(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	require.Equal(t, fiber.StatusCreated, doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("only", true)).StatusCode)

	var only models.UpiSettings
	require.NoError(t, database.Database.Db.Where("name = ?", "only").First(&only).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/admin/upi/settings/%d", only.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// With a second row present, deletion goes through
	require.Equal(t, fiber.StatusCreated, doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("spare", false)).StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/admin/upi/settings/%d", only.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var remaining int64
	database.Database.Db.Model(&models.UpiSettings{}).Where("is_deleted = false").Count(&remaining)
	assert.Equal(t, int64(1), remaining)

	// The survivor is now the last row again; the guard must hold for it too.
	var spare models.UpiSettings
	require.NoError(t, database.Database.Db.Where("name = ? AND is_deleted = false", "spare").First(&spare).Error)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/admin/upi/settings/%d", spare.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	database.Database.Db.Model(&models.UpiSettings{}).Where("is_deleted = false").Count(&remaining)
	assert.Equal(t, int64(1), remaining)
}

func TestUpdateSettings_KeepsStoredSecretsWhenBlank(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	require.Equal(t, fiber.StatusCreated, doJSON(t, app, "POST", "/admin/upi/settings/", token, settingsPayload("primary", true)).StatusCode)

	var stored models.UpiSettings
	require.NoError(t, database.Database.Db.Where("name = ?", "primary").First(&stored).Error)
	originalKey := stored.ApiKey

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/admin/upi/settings/%d", stored.ID), token, fiber.Map{
		"description":    "bumped timeout",
		"timeoutMinutes": 10,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&stored, stored.ID).Error)
	assert.Equal(t, originalKey, stored.ApiKey)
	assert.Equal(t, 10, stored.TimeoutMinutes)
}

func TestSettings_RejectsUnknownProvider(t *testing.T) {
	app := setupApp(t)
	token := createSuperAdmin(t)

	payload := settingsPayload("bad", true)
	payload["provider"] = "stripe"

	resp := doJSON(t, app, "POST", "/admin/upi/settings/", token, payload)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSettings_SuperAdminOnly(t *testing.T) {
	app := setupApp(t)

	user := models.User{
		Name:     "Plain Admin",
		Email:    fmt.Sprintf("admin-%d@example.com", time.Now().UnixNano()),
		Role:     "ADMIN",
		Password: "irrelevant",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)

	resp := doJSON(t, app, "GET", "/admin/upi/settings/", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
