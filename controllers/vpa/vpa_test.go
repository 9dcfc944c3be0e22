package vpaController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"urjakart/config"
	"urjakart/database"
	"urjakart/middleware"
	"urjakart/models"
	vpaRoutes "urjakart/routers/vpaRoutes"

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
		EncryptionKey: strings.Repeat("ab", 32),
	}

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	vpaRoutes.SetupVpaRoutes(app)
	return app
}

func createUser(t *testing.T) (models.User, string) {
	user := models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()),
		Role:     "USER",
		Password: "irrelevant",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)
	return user, token
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

func addVpa(t *testing.T, app *fiber.App, token, vpa string, isDefault bool) *http.Response {
	return doJSON(t, app, "POST", "/user/vpas/", token, fiber.Map{
		"vpa":       vpa,
		"isDefault": isDefault,
	})
}

func countDefaults(t *testing.T, userID uint) int64 {
	var count int64
	database.Database.Db.Model(&models.UserSavedVpa{}).
		Where("user_id = ? AND is_default = true", userID).
		Count(&count)
	return count
}

func TestAddVpa_RejectsDuplicateAndInvalid(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t)

	resp := addVpa(t, app, token, "shopper@ybl", false)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = addVpa(t, app, token, "shopper@ybl", false)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = addVpa(t, app, token, "no-at-sign", false)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddVpa_DefaultDisplacesPrevious(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)

	resp := addVpa(t, app, token, "first@oksbi", true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = addVpa(t, app, token, "second@oksbi", true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	assert.Equal(t, int64(1), countDefaults(t, user.ID))

	var current models.UserSavedVpa
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND is_default = true", user.ID).
		First(&current).Error)
	assert.Equal(t, "second@oksbi", current.Vpa)
}

func TestSetDefaultVpa_ExactlyOneDefault(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)

	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "a@ybl", true).StatusCode)
	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "b@ybl", false).StatusCode)
	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "c@ybl", false).StatusCode)

	var target models.UserSavedVpa
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND vpa = ?", user.ID, "b@ybl").
		First(&target).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/user/vpas/%d/default", target.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(1), countDefaults(t, user.ID))

	var current models.UserSavedVpa
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND is_default = true", user.ID).
		First(&current).Error)
	assert.Equal(t, "b@ybl", current.Vpa)
}

func TestSetDefaultVpa_OtherUsersVpaNotFound(t *testing.T) {
	app := setupApp(t)
	owner, ownerToken := createUser(t)
	_, otherToken := createUser(t)

	require.Equal(t, fiber.StatusCreated, addVpa(t, app, ownerToken, "mine@ybl", true).StatusCode)

	var target models.UserSavedVpa
	require.NoError(t, database.Database.Db.
		Where("user_id = ?", owner.ID).
		First(&target).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/user/vpas/%d/default", target.ID), otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteVpa_HardDeletes(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)

	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "gone@ybl", false).StatusCode)

	var target models.UserSavedVpa
	require.NoError(t, database.Database.Db.
		Where("user_id = ?", user.ID).
		First(&target).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/user/vpas/%d", target.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Unscoped().Model(&models.UserSavedVpa{}).
		Where("user_id = ?", user.ID).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListVpas_DefaultFirst(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t)

	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "plain@ybl", false).StatusCode)
	require.Equal(t, fiber.StatusCreated, addVpa(t, app, token, "chosen@ybl", true).StatusCode)

	resp := doJSON(t, app, "GET", "/user/vpas/", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []models.UserSavedVpa `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "chosen@ybl", body.Data[0].Vpa)
	assert.True(t, body.Data[0].IsDefault)
}
