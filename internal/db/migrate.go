package db

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"b2b-print-designer/internal/cart"
	"b2b-print-designer/internal/draft"
	"b2b-print-designer/internal/org"
	"b2b-print-designer/internal/policy"
	"b2b-print-designer/internal/template"
	"b2b-print-designer/internal/user"
)

// Migrate runs database migrations
func Migrate(database *gorm.DB) {
	err := database.AutoMigrate(
		&user.User{},
		&org.Organization{},
		&template.Template{},
		&draft.Draft{},
		&cart.CartItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Database schema migrated successfully")
}

// SeedData seeds the database with initial data (for development only)
func SeedData(database *gorm.DB) {
	ctx := context.Background()

	orgRepo := org.NewOrgRepository(database)
	demoOrg := &org.Organization{Title: "Acme Print Co", ContactFirstName: "Dana", DefaultQty: 25}
	var existing org.Organization
	if err := database.Where("title = ?", demoOrg.Title).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := orgRepo.Create(ctx, demoOrg); err != nil {
				log.Printf("Error creating demo org: %v", err)
			} else {
				log.Printf("Created demo org: %s", demoOrg.Title)
			}
		}
	} else {
		demoOrg = &existing
	}

	userRepo := user.NewUserRepository(database)
	if _, err := userRepo.FindByEmail(ctx, "admin@example.com"); err != nil {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		testAdmin := &user.User{
			Name:         "Test Admin",
			Email:        "admin@example.com",
			PasswordHash: string(hashed),
			IsActive:     true,
			OrgID:        demoOrg.ID,
			OrgApproved:  true,
			OrgRole:      policy.RoleAdmin,
		}
		if err := userRepo.Create(ctx, testAdmin); err != nil {
			log.Printf("Error creating test admin: %v", err)
		} else {
			log.Printf("Created test admin: %s", testAdmin.Email)
		}
	} else {
		log.Println("Test admin already exists: admin@example.com")
	}
}
