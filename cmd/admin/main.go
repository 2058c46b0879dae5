// Package main provides admin management utilities for Memoria.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"memoria/internal/config"
	"memoria/internal/database"
	"memoria/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>       - Promote user to admin")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>        - Demote user from admin")
		fmt.Println("  go run ./cmd/admin/main.go grant-delete <user_id>  - Grant the delete-any-user capability")
		fmt.Println("  go run ./cmd/admin/main.go revoke-delete <user_id> - Revoke the delete-any-user capability")
		fmt.Println("  go run ./cmd/admin/main.go list-admins             - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		setAdmin(db, arg(2), true)
	case "demote":
		setAdmin(db, arg(2), false)
	case "grant-delete":
		setDeleteCapability(db, arg(2), true)
	case "revoke-delete":
		setDeleteCapability(db, arg(2), false)
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func arg(i int) string {
	if len(os.Args) <= i {
		fmt.Printf("Usage: go run ./cmd/admin/main.go %s <user_id>\n", os.Args[1])
		os.Exit(1)
	}
	return os.Args[i]
}

func loadUser(db *gorm.DB, userID string) *models.User {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}
	return &user
}

func setAdmin(db *gorm.DB, userID string, admin bool) {
	user := loadUser(db, userID)
	if user.IsAdmin == admin {
		fmt.Printf("User %s (ID: %d) already has is_admin=%v\n", user.Name, user.ID, admin)
		return
	}

	user.IsAdmin = admin
	if !admin {
		// Demoted admins lose the deletion capability with the role.
		user.CanDeleteAnyUser = false
	}
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	fmt.Printf("Updated %s (ID: %d): is_admin=%v\n", user.Name, user.ID, admin)
}

func setDeleteCapability(db *gorm.DB, userID string, granted bool) {
	user := loadUser(db, userID)
	if granted && !user.IsAdmin {
		fmt.Printf("User %s (ID: %d) is not an admin; promote first\n", user.Name, user.ID)
		os.Exit(1)
	}
	if user.CanDeleteAnyUser == granted {
		fmt.Printf("User %s (ID: %d) already has can_delete_any_user=%v\n", user.Name, user.ID, granted)
		return
	}

	if err := db.Model(user).Update("can_delete_any_user", granted).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	fmt.Printf("Updated %s (ID: %d): can_delete_any_user=%v\n", user.Name, user.ID, granted)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("Current admins:")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Name: %s | Email: %s | can_delete_any_user: %v\n",
			admin.ID, admin.Name, admin.Email, admin.CanDeleteAnyUser)
	}
}
