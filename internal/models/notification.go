package models

import "time"

// Notification types.
const (
	NotificationTypeReport = "report"
	NotificationTypeAppeal = "appeal"
)

// Notification is a per-recipient record created by moderation fan-out.
// Rows are append-only except for IsRead flips.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
