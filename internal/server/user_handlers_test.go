package server

import (
	"fmt"
	"net/http"
	"testing"

	"memoria/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTestApp(s *Server, actorID uint) *fiber.App {
	app := fiber.New()
	app.Get("/users", asUser(actorID, s.GetAllUsers))
	app.Get("/users/me", asUser(actorID, s.GetMyProfile))
	app.Put("/users/me", asUser(actorID, s.UpdateMyProfile))
	app.Delete("/users/me", asUser(actorID, s.DeleteMyAccount))
	app.Get("/users/:id", asUser(actorID, s.GetUserProfile))
	app.Delete("/users/:id", asUser(actorID, s.DeleteUserAccount))
	return app
}

func TestGetProfileHandler(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "profiled", false)
	community := &models.Community{OwnerID: user.ID, Name: "Mine", Status: models.CommunityStatusActive}
	require.NoError(t, db.Create(community).Error)
	require.NoError(t, db.Create(&models.CommunityPost{
		CommunityID: community.ID, AuthorID: user.ID, Content: "hello",
	}).Error)

	app := userTestApp(s, user.ID)

	resp, body := doRequest(t, app, jsonRequest(http.MethodGet, "/users/me", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["user"].(map[string]any)
	assert.Equal(t, "profiled", profile["name"])
	assert.Len(t, body["recent_activity"], 1)

	resp, _ = doRequest(t, app, jsonRequest(http.MethodGet, "/users/9999", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProfileHandler(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "editable", false)
	app := userTestApp(s, user.ID)

	resp, body := doRequest(t, app, jsonRequest(http.MethodPut, "/users/me", fiber.Map{
		"bio": "hello there",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello there", body["bio"])
	assert.Equal(t, "editable", body["name"], "name stays untouched when omitted")

	resp, _ = doRequest(t, app, jsonRequest(http.MethodPut, "/users/me", fiber.Map{
		"name": "   ",
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMyAccountHandler(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "leaving", false)
	app := userTestApp(s, user.ID)

	resp, body := doRequest(t, app, jsonRequest(http.MethodDelete, "/users/me", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account deleted", body["message"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteUserAccountHandler(t *testing.T) {
	s, db := setupTestServer(t)
	target := seedUser(t, db, "target", false)

	t.Run("self target rejected", func(t *testing.T) {
		app := userTestApp(s, target.ID)
		path := fmt.Sprintf("/users/%d", target.ID)
		resp, body := doRequest(t, app, jsonRequest(http.MethodDelete, path, nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "Use the self-deletion endpoint to delete your own account", body["error"])
	})

	t.Run("without capability", func(t *testing.T) {
		admin := seedUser(t, db, "plain-admin", true)
		app := userTestApp(s, admin.ID)
		path := fmt.Sprintf("/users/%d", target.ID)
		resp, _ := doRequest(t, app, jsonRequest(http.MethodDelete, path, nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("with capability", func(t *testing.T) {
		super := seedUser(t, db, "super-admin", true)
		require.NoError(t, db.Model(super).Update("can_delete_any_user", true).Error)

		app := userTestApp(s, super.ID)
		path := fmt.Sprintf("/users/%d", target.ID)
		resp, _ := doRequest(t, app, jsonRequest(http.MethodDelete, path, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestGetAllUsersHandler(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "first", false)
	seedUser(t, db, "second", false)

	app := userTestApp(s, user.ID)
	resp, body := doRequest(t, app, jsonRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["users"], 2)

	resp, body = doRequest(t, app, jsonRequest(http.MethodGet, "/users?limit=1&offset=1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "second", users[0].(map[string]any)["name"])
}
