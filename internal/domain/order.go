package domain

// Order status values. Transitions are not guarded: any authorized
// caller may set any status directly.
const (
	StatusCreated    = "created"    // Initial status, order sits in the cart
	StatusProcessing = "processing" // Buyer sent the cart to processing
	StatusInWork     = "in_work"    // Admin took the order into work
)

// Order Model. Every field besides the status is a denormalized
// snapshot taken at purchase time; later book or user edits do not
// change existing orders.
type Order struct {
	ID     uint   `gorm:"primaryKey"` // Primary key
	User   string `gorm:"index"`      // Owning username, not a foreign key
	Book   string // Book title at purchase time
	Email  string // Buyer email at purchase time
	Number string `gorm:"unique"` // Buyer phone; unique as in the legacy schema
	Price  string // Price at purchase time
	Status string // Free-text status, see constants above
}
