package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"memoria/internal/models"
	"memoria/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// a plain ":memory:" DSN gives every pooled connection its own empty
	// database; a named shared-cache DSN keeps one database per test
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
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
	return db
}

// dbIsAdmin builds the admin lookup the services take as a dependency.
func dbIsAdmin(db *gorm.DB) func(ctx context.Context, userID uint) (bool, error) {
	return func(ctx context.Context, userID uint) (bool, error) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return false, models.NewInternalError(err)
		}
		return user.IsAdmin, nil
	}
}

func createUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
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

func createCommunity(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Community {
	t.Helper()
	community := &models.Community{
		OwnerID: owner.ID,
		Name:    name,
		Status:  models.CommunityStatusActive,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func createPost(t *testing.T, db *gorm.DB, community *models.Community, author *models.User, content string) *models.CommunityPost {
	t.Helper()
	post := &models.CommunityPost{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Content:     content,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func newNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
	)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertStateConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeStateConflict)
}
