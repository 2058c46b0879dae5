package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memoria/internal/models"
	"memoria/internal/observability"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

// Moderation defaults applied when an admin omits the parameter.
const (
	DefaultMuteDays   = 1
	DefaultMuteReason = "Violation of community rules"
	DefaultFilterMsg  = "Sensitive content"
)

const muteTimeLayout = "02/01/2006 15:04"

// ModerationService provides admin moderation transitions and the mute
// appeal flow. Every admin-gated method fails closed when the actor is not
// an administrator.
type ModerationService struct {
	db              *gorm.DB
	userRepo        repository.UserRepository
	communityRepo   repository.CommunityRepository
	postRepo        repository.PostRepository
	notificationSvc *NotificationService
	isAdmin         func(ctx context.Context, userID uint) (bool, error)
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	postRepo repository.PostRepository,
	notificationSvc *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ModerationService {
	return &ModerationService{
		db:              db,
		userRepo:        userRepo,
		communityRepo:   communityRepo,
		postRepo:        postRepo,
		notificationSvc: notificationSvc,
		isAdmin:         isAdmin,
	}
}

func (s *ModerationService) requireAdmin(ctx context.Context, actorID uint) error {
	ok, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Access denied")
	}
	return nil
}

// BlockCommunity disables a community platform-wide.
func (s *ModerationService) BlockCommunity(ctx context.Context, actorID, communityID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return "", err
	}

	community.Status = models.CommunityStatusBlocked
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("community_block").Inc()
	return fmt.Sprintf("Community %q blocked", community.Name), nil
}

// UnblockCommunity re-enables a blocked community.
func (s *ModerationService) UnblockCommunity(ctx context.Context, actorID, communityID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return "", err
	}

	community.Status = models.CommunityStatusActive
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("community_unblock").Inc()
	return fmt.Sprintf("Community %q unblocked", community.Name), nil
}

// FilterCommunity marks a community as sensitive so default listings skip it.
func (s *ModerationService) FilterCommunity(ctx context.Context, actorID, communityID uint, reason string) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return "", err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultFilterMsg
	}
	community.IsFiltered = true
	community.FilterReason = reason
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("community_filter").Inc()
	return fmt.Sprintf("Community %q filtered: %s", community.Name, reason), nil
}

// UnfilterCommunity clears the sensitive flag and its reason.
func (s *ModerationService) UnfilterCommunity(ctx context.Context, actorID, communityID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return "", err
	}

	community.IsFiltered = false
	community.FilterReason = ""
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("community_unfilter").Inc()
	return fmt.Sprintf("Community %q unfiltered", community.Name), nil
}

// HidePost hides a post from non-author non-admin users, recording who hid
// it and when.
func (s *ModerationService) HidePost(ctx context.Context, actorID, postID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	post.IsHidden = true
	post.HiddenByID = &actorID
	post.HiddenAt = &now
	if err := s.postRepo.Update(ctx, post); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("post_hide").Inc()
	return "Post hidden", nil
}

// UnhidePost restores a hidden post and clears the hiding metadata.
func (s *ModerationService) UnhidePost(ctx context.Context, actorID, postID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return "", err
	}

	post.IsHidden = false
	post.HiddenByID = nil
	post.HiddenAt = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("post_unhide").Inc()
	return "Post restored", nil
}

// BanUser permanently bans a user from posting. Administrators cannot be
// banned.
func (s *ModerationService) BanUser(ctx context.Context, actorID, targetID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target.IsAdmin {
		return "", models.NewStateConflictError("Administrators cannot be banned")
	}

	target.IsBanned = true
	if err := s.userRepo.Update(ctx, target); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("user_ban").Inc()
	return fmt.Sprintf("User %s banned permanently", target.Name), nil
}

// UnbanUser lifts a permanent ban.
func (s *ModerationService) UnbanUser(ctx context.Context, actorID, targetID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	target.IsBanned = false
	if err := s.userRepo.Update(ctx, target); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("user_unban").Inc()
	return fmt.Sprintf("User %s unbanned", target.Name), nil
}

// MuteUser temporarily mutes a user. Zero days falls back to one day, an
// empty reason falls back to the default. Administrators cannot be muted.
func (s *ModerationService) MuteUser(ctx context.Context, actorID, targetID uint, days int, reason string) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target.IsAdmin {
		return "", models.NewStateConflictError("Administrators cannot be muted")
	}

	if days <= 0 {
		days = DefaultMuteDays
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultMuteReason
	}

	until := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	target.IsMuted = true
	target.MuteUntil = &until
	target.MuteReason = reason
	if err := s.userRepo.Update(ctx, target); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("user_mute").Inc()
	return fmt.Sprintf("User %s muted until %s", target.Name, until.UTC().Format(muteTimeLayout)), nil
}

// UnmuteUser clears the mute flag, expiry, and reason.
func (s *ModerationService) UnmuteUser(ctx context.Context, actorID, targetID uint) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	target.IsMuted = false
	target.MuteUntil = nil
	target.MuteReason = ""
	if err := s.userRepo.Update(ctx, target); err != nil {
		return "", err
	}
	observability.ModerationActions.WithLabelValues("user_unmute").Inc()
	return fmt.Sprintf("User %s unmuted", target.Name), nil
}

// AppealMute lets a currently muted user plead their case. One notification
// per admin is created inside a single transaction.
func (s *ModerationService) AppealMute(ctx context.Context, userID uint, message string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsCurrentlyMuted(time.Now()) {
		return models.NewStateConflictError("You are not currently muted")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return models.NewValidationError("Appeal message is required")
	}

	body := fmt.Sprintf("%s is appealing their mute (reason: %s): %s",
		user.Name, user.MuteReason, message)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.notificationSvc.FanOutToAdmins(ctx, tx,
			models.NotificationTypeAppeal,
			"Mute appeal",
			body,
			fmt.Sprintf("/admin/users/%d", userID),
		)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
