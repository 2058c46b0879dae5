package database

import "memoria/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
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
	}
}
