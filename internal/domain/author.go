package domain

// Author Model
type Author struct {
	ID    uint   `gorm:"primaryKey"`      // Primary key
	Name  string `gorm:"unique;not null"` // Unique author name
	Books []Book `gorm:"many2many:associations" json:",omitempty"` // Many-to-many with Book
}
