package domain

// Seeded role ids; role assignment is fixed at user creation
const (
	RoleAdminID uint = 1 // Administrator role id
	RoleUserID  uint = 2 // Default user role id
)

// Role Model
type Role struct {
	ID    uint   `gorm:"primaryKey"`      // Primary key
	Name  string `gorm:"unique;not null"` // Role name: admin or user
	Users []User // One-to-many relationship with User
}
