package service

import (
	"context"
	"testing"

	"memoria/internal/models"
	"memoria/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeFileStore records removals and can be made to fail.
type fakeFileStore struct {
	removed []string
	err     error
}

func (f *fakeFileStore) Remove(path string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, path)
	return nil
}

func newAccountService(db *gorm.DB, files FileStore) *AccountService {
	return NewAccountService(db, repository.NewUserRepository(db), files)
}

// seedDeletionFixture builds a user owning a community with posts, likes,
// comments, content, and moderation records hanging off it.
func seedDeletionFixture(t *testing.T, db *gorm.DB) (target, other *models.User) {
	t.Helper()

	target = createUser(t, db, "doomed", false)
	other = createUser(t, db, "survivor", false)

	community := createCommunity(t, db, target, "Doomed Community")
	for i := 0; i < 3; i++ {
		post := createPost(t, db, community, target, "post")
		require.NoError(t, db.Create(&models.CommunityPostLike{UserID: other.ID, PostID: post.ID}).Error)
		require.NoError(t, db.Create(&models.CommunityPostComment{UserID: other.ID, PostID: post.ID, Text: "nice"}).Error)
	}
	require.NoError(t, db.Create(&models.CommunityBlock{UserID: other.ID, CommunityID: community.ID}).Error)

	// activity by the target in someone else's community
	otherCommunity := createCommunity(t, db, other, "Other Community")
	otherPost := createPost(t, db, otherCommunity, other, "hello")
	require.NoError(t, db.Create(&models.CommunityPostLike{UserID: target.ID, PostID: otherPost.ID}).Error)
	require.NoError(t, db.Create(&models.CommunityPostComment{UserID: target.ID, PostID: otherPost.ID, Text: "hi"}).Error)

	// content owned by the target, with activity from the other user
	content := &models.Content{UserID: target.ID, Title: "Video", FilePath: "videos/1.mp4", ThumbnailPath: "thumbs/1.jpg"}
	require.NoError(t, db.Create(content).Error)
	require.NoError(t, db.Create(&models.ContentComment{ContentID: content.ID, UserID: other.ID, Text: "cool"}).Error)
	require.NoError(t, db.Create(&models.ContentLike{ContentID: content.ID, UserID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{ContentID: content.ID, UserID: other.ID, Stars: 5}).Error)
	require.NoError(t, db.Create(&models.WatchHistory{ContentID: content.ID, UserID: other.ID}).Error)

	// target's activity on the other user's content
	otherContent := &models.Content{UserID: other.ID, Title: "Other Video"}
	require.NoError(t, db.Create(otherContent).Error)
	require.NoError(t, db.Create(&models.ContentLike{ContentID: otherContent.ID, UserID: target.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{ContentID: otherContent.ID, UserID: target.ID, Stars: 2}).Error)

	require.NoError(t, db.Create(&models.Notification{UserID: target.ID, Type: "report", Title: "t", Message: "m"}).Error)
	require.NoError(t, db.Create(&models.Report{
		ReporterID:   target.ID,
		ReportedType: models.ReportedTypeUser,
		ReportedID:   other.ID,
		Reason:       models.ReportReasonOther,
		Status:       models.ReportStatusPending,
	}).Error)

	return target, other
}

func TestAccountService_DeleteAccount_Cascade(t *testing.T) {
	db := newTestDB(t)
	files := &fakeFileStore{}
	svc := newAccountService(db, files)
	ctx := context.Background()

	target, other := seedDeletionFixture(t, db)

	// a report the target reviewed keeps its row with the reviewer nulled
	reviewed := &models.Report{
		ReporterID:   other.ID,
		ReportedType: models.ReportedTypeUser,
		ReportedID:   other.ID,
		Reason:       models.ReportReasonOther,
		Status:       models.ReportStatusResolved,
		ReviewedByID: &target.ID,
	}
	require.NoError(t, db.Create(reviewed).Error)

	require.NoError(t, svc.DeleteAccount(ctx, target.ID, target.ID))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "only the other user remains")
	require.NoError(t, db.Model(&models.Community{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "only the other community remains")

	// nothing owned by or referencing the target survives
	for _, m := range []any{
		&models.CommunityPostLike{}, &models.CommunityPostComment{},
		&models.ContentLike{}, &models.ContentComment{},
		&models.Rating{}, &models.WatchHistory{},
		&models.Notification{}, &models.CommunityBlock{},
	} {
		require.NoError(t, db.Model(m).Where("user_id = ?", target.ID).Count(&n).Error)
		assert.Zero(t, n, "%T rows for deleted user remain", m)
	}
	require.NoError(t, db.Model(&models.Report{}).Where("reporter_id = ?", target.ID).Count(&n).Error)
	assert.Zero(t, n)

	var keptReport models.Report
	require.NoError(t, db.First(&keptReport, reviewed.ID).Error)
	assert.Nil(t, keptReport.ReviewedByID)

	assert.ElementsMatch(t, []string{"videos/1.mp4", "thumbs/1.jpg"}, files.removed)
}

func TestAccountService_DeleteAccount_RollbackOnFailure(t *testing.T) {
	db := newTestDB(t)
	files := &fakeFileStore{}
	svc := newAccountService(db, files)
	ctx := context.Background()

	target, _ := seedDeletionFixture(t, db)

	var before struct{ users, communities, posts, likes, comments int64 }
	require.NoError(t, db.Model(&models.User{}).Count(&before.users).Error)
	require.NoError(t, db.Model(&models.Community{}).Count(&before.communities).Error)
	require.NoError(t, db.Model(&models.CommunityPost{}).Count(&before.posts).Error)
	require.NoError(t, db.Model(&models.CommunityPostLike{}).Count(&before.likes).Error)
	require.NoError(t, db.Model(&models.CommunityPostComment{}).Count(&before.comments).Error)

	// break a late step of the cascade so everything must roll back
	require.NoError(t, db.Migrator().DropTable(&models.Report{}))

	err := svc.DeleteAccount(ctx, target.ID, target.ID)
	require.Error(t, err)

	var after struct{ users, communities, posts, likes, comments int64 }
	require.NoError(t, db.Model(&models.User{}).Count(&after.users).Error)
	require.NoError(t, db.Model(&models.Community{}).Count(&after.communities).Error)
	require.NoError(t, db.Model(&models.CommunityPost{}).Count(&after.posts).Error)
	require.NoError(t, db.Model(&models.CommunityPostLike{}).Count(&after.likes).Error)
	require.NoError(t, db.Model(&models.CommunityPostComment{}).Count(&after.comments).Error)

	assert.Equal(t, before, after, "failed cascade must leave every row intact")
	assert.Empty(t, files.removed, "no artifacts removed when the transaction rolls back")
}

func TestAccountService_DeleteAccount_Authorization(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db, nil)
	ctx := context.Background()

	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)

	err := svc.DeleteAccount(ctx, alice.ID, bob.ID)
	assertForbiddenError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	// the capability, not plain admin status, gates cross-user deletion
	admin := createUser(t, db, "admin", true)
	err = svc.DeleteAccount(ctx, admin.ID, bob.ID)
	assertForbiddenError(t, err)

	require.NoError(t, db.Model(admin).Update("can_delete_any_user", true).Error)
	require.NoError(t, svc.DeleteAccount(ctx, admin.ID, bob.ID))

	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}
