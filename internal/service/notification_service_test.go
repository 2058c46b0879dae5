package service

import (
	"context"
	"fmt"
	"testing"

	"memoria/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_FanOutToAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	admin1 := createUser(t, db, "admin1", true)
	admin2 := createUser(t, db, "admin2", true)
	createUser(t, db, "regular", false)

	require.NoError(t, svc.FanOutToAdmins(ctx, db, models.NotificationTypeReport,
		"New report: Post", "someone reported a post", "/admin/reports/1"))

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 2)

	recipients := map[uint]bool{}
	for _, n := range notifications {
		recipients[n.UserID] = true
		assert.Equal(t, models.NotificationTypeReport, n.Type)
		assert.False(t, n.IsRead)
		assert.Equal(t, "/admin/reports/1", n.Link)
	}
	assert.True(t, recipients[admin1.ID])
	assert.True(t, recipients[admin2.ID])
}

func TestNotificationService_FanOutToAdmins_NoAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	createUser(t, db, "regular", false)

	require.NoError(t, svc.FanOutToAdmins(ctx, db, models.NotificationTypeAppeal, "t", "m", ""))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotificationService_ReadFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	user := createUser(t, db, "user", false)
	other := createUser(t, db, "other", false)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationTypeReport,
			Title:   fmt.Sprintf("n%d", i),
			Message: "m",
		}).Error)
	}

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// only the recipient may flip the read flag
	err = svc.MarkRead(ctx, other.ID, list[0].ID)
	assertForbiddenError(t, err)

	require.NoError(t, svc.MarkRead(ctx, user.ID, list[0].ID))
	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))
	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_Recent(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	user := createUser(t, db, "user", false)
	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationTypeReport,
			Title:   fmt.Sprintf("n%d", i),
			Message: "m",
		}).Error)
	}

	recent, err := svc.Recent(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
}
