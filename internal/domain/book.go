package domain

// Book Model
type Book struct {
	ID          uint     `gorm:"primaryKey"` // Primary key
	Title       string   `gorm:"not null"`   // Book title, indexed for search
	Type        string   // Genre
	Description string   // Short description
	Price       string   // Price, stored as text
	Image       []byte   `gorm:"type:blob" json:"-"` // Cover image stored inline
	Authors     []Author `gorm:"many2many:associations" json:",omitempty"` // Many-to-many with Author
}
