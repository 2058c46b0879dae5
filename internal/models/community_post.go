package models

import "time"

// CommunityPost represents a post inside a community.
//
// A hidden post stays visible to its author and to admins; it is excluded
// from listings for everyone else but keeps counting wherever no visibility
// filter is applied.
type CommunityPost struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"not null;index" json:"community_id"`
	Community   Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`

	IsHidden   bool       `gorm:"not null;default:false" json:"is_hidden"`
	HiddenByID *uint      `json:"hidden_by_id,omitempty"`
	HiddenAt   *time.Time `json:"hidden_at,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommunityPostLike represents a user's like on a community post.
// The combination of UserID and PostID must be unique; repeated like
// requests toggle the row rather than accumulate.
type CommunityPostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Post CommunityPost `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// CommunityPostComment represents a flat (non-nested) comment on a post.
type CommunityPostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Post CommunityPost `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
