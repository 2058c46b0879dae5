package models

import "time"

// CommunityStatus defines the moderation state of a community.
type CommunityStatus string

const (
	// CommunityStatusActive indicates a community is visible and usable.
	CommunityStatusActive CommunityStatus = "active"
	// CommunityStatusBlocked indicates a community is disabled by moderation.
	CommunityStatusBlocked CommunityStatus = "blocked"
)

// Community represents a user-owned discussion space.
//
// Status and IsFiltered are independent axes: a community can be active but
// still filtered out of listings for users who have not opted into
// sensitive content.
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string `gorm:"size:120;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Status CommunityStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	IsFiltered   bool   `gorm:"not null;default:false" json:"is_filtered"`
	FilterReason string `json:"filter_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}

// CommunityBlock records a user's personal opt-out of a community.
// At most one block per (user, community) pair.
type CommunityBlock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_community" json:"user_id"`
	CommunityID uint      `gorm:"not null;uniqueIndex:idx_user_community" json:"community_id"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
}
