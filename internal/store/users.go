package store

import (
	"errors" // For errors.Is on gorm sentinels

	"bookstore/internal/domain" // Importing domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Users is the repository for registration and login lookups
type Users struct{ db *gorm.DB }

// NewUsers creates a Users repository
func NewUsers(db *gorm.DB) *Users { return &Users{db: db} }

// Register creates a user with a bcrypt-hashed password. The role is
// derived from the email and fixed for the lifetime of the account.
func (r *Users) Register(username, email, password, number string) (*domain.User, error) {
	var count int64
	// Pre-check the unique email so the duplicate surfaces as a form error
	if err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	// Usernames must be unique too: orders are keyed by the denormalized
	// username, so a reused name would expose another buyer's cart
	if err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Number:       number,
		RoleID:       domain.RoleIDForEmail(email), // Fixed at creation
	}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate looks the user up by email and verifies the password
// against the stored hash. Both failure modes collapse into
// ErrInvalidCredentials so the login form cannot probe for accounts.
func (r *Users) Authenticate(email, password string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ByID fetches a single user
func (r *Users) ByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
