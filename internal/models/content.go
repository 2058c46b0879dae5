package models

import "time"

// Content represents an uploaded media item (video, document) owned by a
// user. Upload handling itself lives outside this service; rows carry the
// stored artifact paths so account deletion can clean them up.
type Content struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	FilePath      string    `json:"file_path,omitempty"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContentComment is a comment on a content item.
type ContentComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;index" json:"content_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentLike is a like on a content item, unique per (user, content).
type ContentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_content_like" json:"user_id"`
	ContentID uint      `gorm:"not null;uniqueIndex:idx_content_like" json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchHistory records that a user watched a content item.
type WatchHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ContentID uint      `gorm:"not null;index" json:"content_id"`
	WatchedAt time.Time `json:"watched_at"`
}

// Rating is a star rating (with optional review text) on a content item.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ContentID uint      `gorm:"not null;index" json:"content_id"`
	Stars     int       `gorm:"not null" json:"stars"`
	Review    string    `gorm:"type:text" json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentCategory links a content item to a category.
type ContentCategory struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ContentID uint   `gorm:"not null;index" json:"content_id"`
	Category  string `gorm:"size:60;not null" json:"category"`
}
