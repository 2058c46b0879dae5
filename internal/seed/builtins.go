package seed

import (
	"errors"
	"fmt"

	"memoria/internal/models"

	"gorm.io/gorm"
)

// BuiltInCommunity is a permanent system community.
type BuiltInCommunity struct {
	Name        string
	Description string
}

// BuiltInCommunities defines the permanent system communities.
var BuiltInCommunities = []BuiltInCommunity{
	{Name: "Local History", Description: "Stories and records from the places we live."},
	{Name: "Family Traditions", Description: "Recipes, rituals, and customs passed down."},
	{Name: "Folklore", Description: "Legends, songs, and popular culture."},
	{Name: "Photo Archives", Description: "Old photographs and the stories behind them."},
	{Name: "Crafts", Description: "Traditional crafts and how they are made."},
	{Name: "Oral Histories", Description: "Interviews and first-person accounts."},
}

// Communities seeds the permanent built-in communities owned by the given
// user, usually the official account. Existing communities are updated in
// place so renames in this list propagate.
func Communities(db *gorm.DB, ownerID uint) error {
	for _, item := range BuiltInCommunities {
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Community
			findErr := tx.Where("name = ?", item.Name).First(&existing).Error
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				community := models.Community{
					OwnerID:     ownerID,
					Name:        item.Name,
					Description: item.Description,
					Status:      models.CommunityStatusActive,
				}
				return tx.Create(&community).Error
			case findErr != nil:
				return findErr
			}

			if existing.Description != item.Description {
				return tx.Model(&existing).Update("description", item.Description).Error
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Name, err)
		}
	}
	return nil
}
