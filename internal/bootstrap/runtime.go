// Package bootstrap wires the runtime dependencies and ensures the
// built-in records the application expects at startup.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"memoria/internal/cache"
	"memoria/internal/config"
	"memoria/internal/database"
	"memoria/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	EnsureOfficialData bool
}

// InitRuntime connects to DB and Redis and optionally ensures the official
// account and community exist.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May result in a nil client if unreachable
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureOfficialData {
		if err := EnsureOfficialData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap official data: %w", err)
		}
	}

	return db, r, nil
}

// EnsureOfficialData creates the official account and its community when
// missing. The official account administers the platform and holds the
// delete-any-user capability. Safe to run on every startup.
func EnsureOfficialData(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.OfficialEmail))
	if email == "" {
		email = "official@memoria.local"
	}
	name := strings.TrimSpace(cfg.OfficialName)
	if name == "" {
		name = "Memoria"
	}
	communityName := strings.TrimSpace(cfg.OfficialCommunityName)
	if communityName == "" {
		communityName = name
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var official models.User
		findErr := tx.Where("email = ?", email).First(&official).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if cfg.OfficialPassword == "" {
				return fmt.Errorf("OFFICIAL_PASSWORD must be set to create the official account")
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.OfficialPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash official password: %w", err)
			}
			official = models.User{
				Name:             name,
				Email:            email,
				Password:         string(hashed),
				IsAdmin:          true,
				CanDeleteAnyUser: true,
			}
			if err := tx.Create(&official).Error; err != nil {
				return err
			}
			log.Printf("official account created (%s)", email)
		case findErr != nil:
			return findErr
		default:
			// Account exists, make sure it kept its privileges.
			if !official.IsAdmin || !official.CanDeleteAnyUser {
				if err := tx.Model(&official).Updates(map[string]any{
					"is_admin":            true,
					"can_delete_any_user": true,
				}).Error; err != nil {
					return err
				}
				log.Printf("official account privileges restored (%s)", email)
			}
		}

		var community models.Community
		communityErr := tx.Where("name = ?", communityName).First(&community).Error
		switch {
		case errors.Is(communityErr, gorm.ErrRecordNotFound):
			community = models.Community{
				OwnerID:     official.ID,
				Name:        communityName,
				Description: "Official community. Join the discussions about collections, traditions, and local culture!",
				Status:      models.CommunityStatusActive,
			}
			if err := tx.Create(&community).Error; err != nil {
				return err
			}
			log.Printf("official community created (%s)", communityName)
		case communityErr != nil:
			return communityErr
		}

		return nil
	})
}
