package seed

import (
	"testing"

	"memoria/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
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
		&models.Notification{},
		&models.Report{},
	))
	return db
}

func TestSeedPopulatesDatabase(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Seed(db, Options{
		NumUsers:       5,
		NumCommunities: 3,
		NumPosts:       10,
		SkipBcrypt:     true,
	}))

	var users, communities, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Community{}).Count(&communities).Error)
	require.NoError(t, db.Model(&models.CommunityPost{}).Count(&posts).Error)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(3), communities)
	assert.Equal(t, int64(10), posts)
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Seed(db, Options{
		NumUsers: 3, NumCommunities: 2, NumPosts: 4, SkipBcrypt: true,
	}))
	require.NoError(t, Seed(db, Options{
		NumUsers: 3, NumCommunities: 2, NumPosts: 4, SkipBcrypt: true, ShouldClean: true,
	}))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}

func TestFactoryLikeDeduplicates(t *testing.T) {
	db := newSeedDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	community, err := f.CreateCommunity(user)
	require.NoError(t, err)
	post, err := f.CreatePost(community, user)
	require.NoError(t, err)

	require.NoError(t, f.CreateLike(post, user))
	require.NoError(t, f.CreateLike(post, user))

	var likes int64
	require.NoError(t, db.Model(&models.CommunityPostLike{}).Count(&likes).Error)
	assert.Equal(t, int64(1), likes)
}

func TestBuiltInCommunities(t *testing.T) {
	db := newSeedDB(t)
	owner := &models.User{Name: "official", Email: "official@memoria.local", Password: "hash", IsAdmin: true}
	require.NoError(t, db.Create(owner).Error)

	require.NoError(t, Communities(db, owner.ID))
	require.NoError(t, Communities(db, owner.ID))

	var count int64
	require.NoError(t, db.Model(&models.Community{}).Count(&count).Error)
	assert.Equal(t, int64(len(BuiltInCommunities)), count)

	var first models.Community
	require.NoError(t, db.Where("name = ?", "Folklore").First(&first).Error)
	assert.Equal(t, owner.ID, first.OwnerID)
}
