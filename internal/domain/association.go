package domain

// Association is the join-table row linking one Book to one Author.
// Registered as the explicit join model so cascade deletes and the
// duplicate check can address the rows directly.
type Association struct {
	BookID   uint `gorm:"primaryKey"` // Composite key part: book id
	AuthorID uint `gorm:"primaryKey"` // Composite key part: author id
}
