package models

import "time"

// ReportedType tags the kind of entity a report points at. The pair
// (ReportedType, ReportedID) is a tagged reference resolved by looking up
// the matching table, never a foreign key.
type ReportedType string

const (
	ReportedTypePost      ReportedType = "post"
	ReportedTypeContent   ReportedType = "content"
	ReportedTypeUser      ReportedType = "user"
	ReportedTypeComment   ReportedType = "comment"
	ReportedTypeCommunity ReportedType = "community"
)

// Valid reports whether the tag is one of the known entity kinds.
func (t ReportedType) Valid() bool {
	switch t {
	case ReportedTypePost, ReportedTypeContent, ReportedTypeUser,
		ReportedTypeComment, ReportedTypeCommunity:
		return true
	}
	return false
}

// Label returns the human-readable name used in notification text.
func (t ReportedType) Label() string {
	switch t {
	case ReportedTypePost:
		return "Post"
	case ReportedTypeContent:
		return "Content"
	case ReportedTypeUser:
		return "User"
	case ReportedTypeComment:
		return "Comment"
	case ReportedTypeCommunity:
		return "Community"
	}
	return string(t)
}

// Report reasons.
const (
	ReportReasonSpam          = "spam"
	ReportReasonInappropriate = "inappropriate"
	ReportReasonHarassment    = "harassment"
	ReportReasonCopyright     = "copyright"
	ReportReasonOther         = "other"
)

// ReportReasonLabel maps a reason tag to its display name.
func ReportReasonLabel(reason string) string {
	switch reason {
	case ReportReasonSpam:
		return "Spam"
	case ReportReasonInappropriate:
		return "Inappropriate content"
	case ReportReasonHarassment:
		return "Harassment"
	case ReportReasonCopyright:
		return "Copyright violation"
	case ReportReasonOther:
		return "Other"
	}
	return reason
}

// ValidReportReason reports whether the reason tag is known.
func ValidReportReason(reason string) bool {
	switch reason {
	case ReportReasonSpam, ReportReasonInappropriate, ReportReasonHarassment,
		ReportReasonCopyright, ReportReasonOther:
		return true
	}
	return false
}

// Report statuses. Resolved and dismissed are terminal.
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report is a user-submitted complaint against a platform entity.
// At most one pending report per (reporter, type, id) triple.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ReporterID   uint         `gorm:"not null;index" json:"reporter_id"`
	Reporter     User         `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ReportedType ReportedType `gorm:"type:varchar(20);not null;index" json:"reported_type"`
	ReportedID   uint         `gorm:"not null" json:"reported_id"`
	Reason       string       `gorm:"size:40;not null" json:"reason"`
	Description  string       `gorm:"type:text" json:"description"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// ReviewedByID is nullable so review history survives reviewer account
	// deletion.
	ReviewedByID *uint      `json:"reviewed_by_id,omitempty"`
	ReviewedBy   *User      `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	AdminNotes   string     `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// ReportedItem is the resolved target for display; nil when the target
	// no longer exists. Not persisted.
	ReportedItem any `gorm:"-" json:"reported_item,omitempty"`
}
