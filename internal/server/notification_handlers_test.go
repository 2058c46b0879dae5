package server

import (
	"fmt"
	"net/http"
	"testing"

	"memoria/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func notificationTestApp(s *Server, actorID uint) *fiber.App {
	app := fiber.New()
	app.Get("/notifications", asUser(actorID, s.GetNotifications))
	app.Get("/notifications/recent", asUser(actorID, s.GetRecentNotifications))
	app.Get("/notifications/unread-count", asUser(actorID, s.GetUnreadNotificationCount))
	app.Post("/notifications/read-all", asUser(actorID, s.MarkAllNotificationsRead))
	app.Post("/notifications/:id/read", asUser(actorID, s.MarkNotificationRead))
	return app
}

func seedNotification(t *testing.T, db *gorm.DB, userID uint, title string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeReport,
		Title:   title,
		Message: "something happened",
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestNotificationReadFlow(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "user", false)
	other := seedUser(t, db, "other", false)

	first := seedNotification(t, db, user.ID, "first")
	seedNotification(t, db, user.ID, "second")
	foreign := seedNotification(t, db, other.ID, "not yours")

	app := notificationTestApp(s, user.ID)

	resp, body := doRequest(t, app, jsonRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["notifications"], 2)

	resp, body = doRequest(t, app, jsonRequest(http.MethodGet, "/notifications/unread-count", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["unread"])

	// Another user's notification cannot be marked.
	path := fmt.Sprintf("/notifications/%d/read", foreign.ID)
	resp, _ = doRequest(t, app, jsonRequest(http.MethodPost, path, nil))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	path = fmt.Sprintf("/notifications/%d/read", first.ID)
	resp, _ = doRequest(t, app, jsonRequest(http.MethodPost, path, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, jsonRequest(http.MethodGet, "/notifications/unread-count", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["unread"])

	resp, _ = doRequest(t, app, jsonRequest(http.MethodPost, "/notifications/read-all", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, jsonRequest(http.MethodGet, "/notifications/unread-count", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["unread"])
}

func TestRecentNotificationsCapped(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "user", false)

	for i := 0; i < 15; i++ {
		seedNotification(t, db, user.ID, fmt.Sprintf("notification %d", i))
	}

	app := notificationTestApp(s, user.ID)
	resp, body := doRequest(t, app, jsonRequest(http.MethodGet, "/notifications/recent", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["notifications"], 10)
}
