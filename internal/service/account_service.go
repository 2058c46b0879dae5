package service

import (
	"context"
	"errors"

	"memoria/internal/cache"
	"memoria/internal/middleware"
	"memoria/internal/models"
	"memoria/internal/observability"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

// AccountService deletes user accounts with their full dependency tree.
type AccountService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	files    FileStore
}

// NewAccountService returns a new AccountService. files may be nil when no
// media storage is configured.
func NewAccountService(db *gorm.DB, userRepo repository.UserRepository, files FileStore) *AccountService {
	return &AccountService{db: db, userRepo: userRepo, files: files}
}

// DeleteAccount removes the target user and every dependent record in one
// transaction, dependents first. Users may delete themselves; deleting
// another account requires the CanDeleteAnyUser capability. Stored media
// artifacts are removed best-effort after the transaction commits, so a
// rollback never loses files.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, targetID uint) error {
	if actorID != targetID {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.CanDeleteAnyUser {
			return models.NewForbiddenError("You cannot delete other accounts")
		}
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	var artifacts []string

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// (a) the user's content and everything hanging off it, collecting
		// stored file paths for post-commit removal
		var contents []models.Content
		if err := tx.Where("user_id = ?", targetID).Find(&contents).Error; err != nil {
			return err
		}
		for _, c := range contents {
			if c.FilePath != "" {
				artifacts = append(artifacts, c.FilePath)
			}
			if c.ThumbnailPath != "" {
				artifacts = append(artifacts, c.ThumbnailPath)
			}
		}
		contentIDs := make([]uint, 0, len(contents))
		for _, c := range contents {
			contentIDs = append(contentIDs, c.ID)
		}
		if len(contentIDs) > 0 {
			for _, m := range []any{
				&models.ContentComment{},
				&models.ContentLike{},
				&models.WatchHistory{},
				&models.Rating{},
				&models.ContentCategory{},
			} {
				if err := tx.Where("content_id IN ?", contentIDs).Delete(m).Error; err != nil {
					return err
				}
			}
		}

		// (b) ratings the user left on others' content
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		// (c) the user's likes and comments on community posts
		if err := tx.Where("user_id = ?", targetID).Delete(&models.CommunityPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.CommunityPostComment{}).Error; err != nil {
			return err
		}

		// (d) the user's posts, with likes and comments left by others
		postIDs := tx.Model(&models.CommunityPost{}).Select("id").Where("author_id = ?", targetID)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.CommunityPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.CommunityPostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", targetID).Delete(&models.CommunityPost{}).Error; err != nil {
			return err
		}

		// (e) owned communities, cascading through their posts
		ownedIDs := tx.Model(&models.Community{}).Select("id").Where("owner_id = ?", targetID)
		ownedPostIDs := tx.Model(&models.CommunityPost{}).Select("id").Where("community_id IN (?)", ownedIDs)
		if err := tx.Where("post_id IN (?)", ownedPostIDs).Delete(&models.CommunityPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", ownedPostIDs).Delete(&models.CommunityPostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id IN (?)", ownedIDs).Delete(&models.CommunityPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id IN (?)", ownedIDs).Delete(&models.CommunityBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", targetID).Delete(&models.Community{}).Error; err != nil {
			return err
		}

		// (f) the user's own community blocks
		if err := tx.Where("user_id = ?", targetID).Delete(&models.CommunityBlock{}).Error; err != nil {
			return err
		}

		// (g) the user's activity on others' content
		if err := tx.Where("user_id = ?", targetID).Delete(&models.ContentComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.ContentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.WatchHistory{}).Error; err != nil {
			return err
		}

		// (h) notifications
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		// (i) reports the user filed; reviews they performed keep the row
		// with the reviewer reference nulled
		if err := tx.Where("reporter_id = ?", targetID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Report{}).
			Where("reviewed_by_id = ?", targetID).
			Update("reviewed_by_id", nil).Error; err != nil {
			return err
		}

		// (j) the user's own content rows, then the user
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Content{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, targetID).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}

	s.removeArtifacts(artifacts)
	cache.InvalidateUser(ctx, targetID)

	observability.AccountDeletions.Inc()
	middleware.Logger.Info("account deleted",
		"target_id", targetID, "actor_id", actorID, "email", target.Email)
	return nil
}

// removeArtifacts deletes stored files best-effort. Failures are logged and
// never propagate.
func (s *AccountService) removeArtifacts(paths []string) {
	if s.files == nil {
		return
	}
	for _, p := range paths {
		if err := s.files.Remove(p); err != nil {
			middleware.Logger.Warn("failed to remove media artifact", "path", p, "error", err)
		}
	}
}
