package models

import (
	"fmt"
	"time"
)

// User represents an account on the Memoria platform.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `gorm:"type:text" json:"bio"`

	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`
	// CanDeleteAnyUser is the elevated capability required to delete other
	// accounts. It is granted explicitly (bootstrap grants it to the default
	// admin) rather than inferred from a fixed identity.
	CanDeleteAnyUser bool `gorm:"not null;default:false" json:"can_delete_any_user"`

	IsBanned bool `gorm:"not null;default:false" json:"is_banned"`

	// Mute state. MuteUntil and MuteReason are kept after expiry until an
	// explicit unmute so admins retain the mute history.
	IsMuted    bool       `gorm:"not null;default:false" json:"is_muted"`
	MuteUntil  *time.Time `json:"mute_until,omitempty"`
	MuteReason string     `json:"mute_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCurrentlyMuted reports whether the user's mute is in effect at the given
// instant. An expired mute is inert but the flag is not auto-cleared.
func (u *User) IsCurrentlyMuted(now time.Time) bool {
	return u.IsMuted && u.MuteUntil != nil && u.MuteUntil.After(now)
}

// CanPost checks whether the user may create posts or comments at the given
// instant. Returns nil when allowed, otherwise a caller-visible error.
func (u *User) CanPost(now time.Time) error {
	if u.IsBanned {
		return NewForbiddenError("Your account is banned from posting")
	}
	if u.IsCurrentlyMuted(now) {
		return NewForbiddenError(fmt.Sprintf(
			"You are muted until %s", u.MuteUntil.UTC().Format("02/01/2006 15:04")))
	}
	return nil
}
