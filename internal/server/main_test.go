package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"memoria/internal/config"
	"memoria/internal/featureflags"
	"memoria/internal/models"
	"memoria/internal/repository"
	"memoria/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a Server backed by an in-memory database. The
// prometheus middleware is left nil so repeated setups do not re-register
// collectors.
var testDBSeq atomic.Int64

func setupTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	// a plain ":memory:" DSN gives every pooled connection its own empty
	// database; a named shared-cache DSN keeps one database per test
	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityBlock{},
		&models.CommunityPost{},
		&models.CommunityPostLike{},
		&models.CommunityPostComment{},
		&models.Content{},
		&models.ContentCategory{},
		&models.ContentComment{},
		&models.ContentLike{},
		&models.WatchHistory{},
		&models.Rating{},
		&models.Notification{},
		&models.Report{},
	))

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-key-for-handler-tests",
			Env:       "test",
			Port:      "0",
		},
		flags:            featureflags.NewManager("mute_appeals=on,filtered_optin=on"),
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		communityRepo:    repository.NewCommunityRepository(db),
		postRepo:         repository.NewPostRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		reportRepo:       repository.NewReportRepository(db),
	}

	access := service.NewAccessPolicy(s.communityRepo)
	s.notificationService = service.NewNotificationService(s.userRepo, s.notificationRepo)
	s.communityService = service.NewCommunityService(db, s.communityRepo, s.postRepo, s.userRepo, access)
	s.moderationService = service.NewModerationService(
		db, s.userRepo, s.communityRepo, s.postRepo, s.notificationService, s.isAdminByUserID)
	s.reportService = service.NewReportService(
		db, s.reportRepo, s.userRepo, s.notificationService, s.isAdminByUserID)
	s.accountService = service.NewAccountService(db, s.userRepo, nil)
	s.userService = service.NewUserService(db, s.userRepo)

	return s, db
}

func seedUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hash",
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// asUser returns a handler that injects the given user ID the way
// AuthRequired would before invoking h.
func asUser(userID uint, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return h(c)
	}
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), "response body: %s", raw)
	}
	return resp, body
}
