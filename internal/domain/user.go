package domain

// AdminEmail is the single reserved address that receives the admin role
const AdminEmail = "admin@admin.ru"

// User Model
type User struct {
	ID           uint   `gorm:"primaryKey"`       // Primary key
	Username     string `gorm:"index;not null"`   // Display name, indexed for order lookups
	Email        string `gorm:"unique;not null"`  // Unique login email
	PasswordHash string `gorm:"not null" json:"-"` // Bcrypt hash, never rendered
	Number       string // Phone number, copied onto orders
	RoleID       uint   // Foreign key to Role
}

// IsAdministrator reports whether the user carries the admin role
func (u *User) IsAdministrator() bool {
	return u.RoleID == RoleAdminID
}

// RoleIDForEmail derives the role at creation time: the reserved admin
// address gets the admin role, everyone else the default user role
func RoleIDForEmail(email string) uint {
	if email == AdminEmail {
		return RoleAdminID
	}
	return RoleUserID
}
