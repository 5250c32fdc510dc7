package db

import (
	"bookstore/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// RegisterJoinTables binds the explicit Association model to the
// book/author many-to-many relation. Must run on every connection
// before the relation is used.
func RegisterJoinTables(g *gorm.DB) error {
	if err := g.SetupJoinTable(&domain.Book{}, "Authors", &domain.Association{}); err != nil {
		return err
	}
	return g.SetupJoinTable(&domain.Author{}, "Books", &domain.Association{})
}

// AutoMigrate creates tables, missing foreign keys, constraints, columns and indexes
func AutoMigrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.Book{},
		&domain.Author{},
		&domain.Association{},
		&domain.Order{},
	)
}

// SeedRoles inserts the two fixed roles if they are not present yet
func SeedRoles(g *gorm.DB) error {
	roles := []domain.Role{
		{ID: domain.RoleAdminID, Name: "admin"}, // Administrator role
		{ID: domain.RoleUserID, Name: "user"},   // Default user role
	}
	for _, role := range roles {
		// FirstOrCreate keeps reruns of the migration idempotent
		if err := g.Where(domain.Role{ID: role.ID}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	g, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := RegisterJoinTables(g); err != nil {
		logrus.Fatalf("failed to register join tables: %v", err)
	}
	if err := AutoMigrate(g); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	if err := SeedRoles(g); err != nil {
		logrus.Fatalf("role seed failed: %v", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
}
