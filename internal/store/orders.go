package store

import (
	"errors" // For errors.Is on gorm sentinels

	"bookstore/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Orders is the repository for the purchase workflow. An order is a
// denormalized snapshot; nothing here follows foreign keys back to the
// user or book tables.
type Orders struct{ db *gorm.DB }

// NewOrders creates an Orders repository
func NewOrders(db *gorm.DB) *Orders { return &Orders{db: db} }

// Place creates an order in the initial status, copying the buyer's
// contact data and the book's title and price at this instant.
func (r *Orders) Place(user *domain.User, book *domain.Book) (*domain.Order, error) {
	var count int64
	// The legacy schema keeps phone numbers unique across all orders;
	// pre-check so the violation reads as a form error, not a 500
	if err := r.db.Model(&domain.Order{}).Where("number = ?", user.Number).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicatePhone
	}
	order := domain.Order{
		User:   user.Username,
		Book:   book.Title,
		Email:  user.Email,
		Number: user.Number,
		Price:  book.Price,
		Status: domain.StatusCreated,
	}
	if err := r.db.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ByID fetches a single order
func (r *Orders) ByID(id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// AdvanceAll moves every order the user still has in the cart to
// processing. Orders past the initial status are left untouched, so
// re-applying the call changes nothing.
func (r *Orders) AdvanceAll(username string) error {
	return r.db.Model(&domain.Order{}).
		Where("user = ? AND status = ?", username, domain.StatusCreated).
		Update("status", domain.StatusProcessing).Error
}

// AdvanceOne sets a single order to in_work regardless of owner.
// The status is written directly; no prior status is required.
func (r *Orders) AdvanceOne(id uint) error {
	order, err := r.ByID(id)
	if err != nil {
		return err
	}
	return r.db.Model(order).Update("status", domain.StatusInWork).Error
}

// Delete removes the order. The caller is responsible for the owner-or-
// admin permission check.
func (r *Orders) Delete(id uint) error {
	if _, err := r.ByID(id); err != nil {
		return err
	}
	return r.db.Delete(&domain.Order{}, id).Error
}

// Cart lists the user's orders still in the initial status
func (r *Orders) Cart(username string) ([]domain.Order, error) {
	var orders []domain.Order
	return orders, r.db.Where("user = ? AND status = ?", username, domain.StatusCreated).Find(&orders).Error
}

// InProgress lists the user's orders past the initial status
func (r *Orders) InProgress(username string) ([]domain.Order, error) {
	var orders []domain.Order
	return orders, r.db.Where("user = ? AND status <> ?", username, domain.StatusCreated).Find(&orders).Error
}

// AllInProgress lists every order past the initial status, for the
// admin console
func (r *Orders) AllInProgress() ([]domain.Order, error) {
	var orders []domain.Order
	return orders, r.db.Where("status <> ?", domain.StatusCreated).Find(&orders).Error
}
