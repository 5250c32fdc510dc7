package store

import (
	"errors" // For errors.Is on gorm sentinels

	"bookstore/internal/domain" // Importing domain models
	"bookstore/internal/search" // Full-text index kept in sync with the store

	"gorm.io/gorm" // GORM ORM library
)

// Catalog is the repository for books, authors and the join rows
// linking them. Every mutation is mirrored into the search index
// after the store write; the two are not atomic and a crash between
// them is repaired by the startup rebuild.
type Catalog struct {
	db    *gorm.DB      // Relational store
	index *search.Index // Full-text index over titles and names
}

// NewCatalog creates a Catalog repository
func NewCatalog(db *gorm.DB, index *search.Index) *Catalog {
	return &Catalog{db: db, index: index}
}

// BookUpdate is a typed partial update: nil pointers leave the field
// untouched, a nil Image keeps the current cover.
type BookUpdate struct {
	Title       *string // New title
	Type        *string // New genre
	Description *string // New description
	Price       *string // New price text
	Image       []byte  // New cover bytes
}

// CreateBook persists the book plus one association row per author id,
// then indexes the title.
func (r *Catalog) CreateBook(title, bookType, description, price string, authorIDs []uint, image []byte) (*domain.Book, error) {
	book := domain.Book{
		Title:       title,
		Type:        bookType,
		Description: description,
		Price:       price,
		Image:       image,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&book).Error; err != nil {
			return err
		}
		for _, authorID := range authorIDs {
			if err := tx.Create(&domain.Association{BookID: book.ID, AuthorID: authorID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := r.index.IndexBook(&book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateAuthor persists a new author and indexes the name
func (r *Catalog) CreateAuthor(name string) (*domain.Author, error) {
	var count int64
	// Pre-check the unique name so the duplicate surfaces as a form error
	if err := r.db.Model(&domain.Author{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateAuthor
	}
	author := domain.Author{Name: name}
	if err := r.db.Create(&author).Error; err != nil {
		return nil, err
	}
	if err := r.index.IndexAuthor(&author); err != nil {
		return nil, err
	}
	return &author, nil
}

// UpdateBook applies the non-nil fields of upd and reindexes the title
func (r *Catalog) UpdateBook(id uint, upd BookUpdate) (*domain.Book, error) {
	book, err := r.Book(id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Type != nil {
		fields["type"] = *upd.Type
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.Image != nil {
		fields["image"] = upd.Image
	}
	if len(fields) == 0 {
		return book, nil // Nothing to change
	}
	if err := r.db.Model(book).Updates(fields).Error; err != nil {
		return nil, err
	}
	// Reload so the caller and the index see the stored values
	book, err = r.Book(id)
	if err != nil {
		return nil, err
	}
	if err := r.index.IndexBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateAuthor renames an author and reindexes the name
func (r *Catalog) UpdateAuthor(id uint, name string) (*domain.Author, error) {
	author, err := r.Author(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(author).Update("name", name).Error; err != nil {
		return nil, err
	}
	author, err = r.Author(id)
	if err != nil {
		return nil, err
	}
	if err := r.index.IndexAuthor(author); err != nil {
		return nil, err
	}
	return author, nil
}

// DeleteBook removes the book and every association row referencing it,
// then drops it from the index
func (r *Catalog) DeleteBook(id uint) error {
	if _, err := r.Book(id); err != nil {
		return err
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Cascade: the join rows go with the parent
		if err := tx.Where("book_id = ?", id).Delete(&domain.Association{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Book{}, id).Error
	})
	if err != nil {
		return err
	}
	return r.index.RemoveBook(id)
}

// DeleteAuthor removes the author and every association row referencing
// them, then drops the name from the index. Linked books stay.
func (r *Catalog) DeleteAuthor(id uint) error {
	if _, err := r.Author(id); err != nil {
		return err
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&domain.Association{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Author{}, id).Error
	})
	if err != nil {
		return err
	}
	return r.index.RemoveAuthor(id)
}

// AddAssociation links an existing book to an existing author. The
// duplicate check is on the composite pair, matching the join table's
// primary key.
func (r *Catalog) AddAssociation(bookID, authorID uint) error {
	if _, err := r.Book(bookID); err != nil {
		return err
	}
	if _, err := r.Author(authorID); err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&domain.Association{}).
		Where("book_id = ? AND author_id = ?", bookID, authorID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateAssociation
	}
	return r.db.Create(&domain.Association{BookID: bookID, AuthorID: authorID}).Error
}

// Book fetches a single book with its authors preloaded
func (r *Catalog) Book(id uint) (*domain.Book, error) {
	var book domain.Book
	if err := r.db.Preload("Authors").First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Author fetches a single author with their books preloaded
func (r *Catalog) Author(id uint) (*domain.Author, error) {
	var author domain.Author
	if err := r.db.Preload("Books").First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}

// Books lists the whole catalog in insertion order
func (r *Catalog) Books() ([]domain.Book, error) {
	var books []domain.Book
	return books, r.db.Preload("Authors").Find(&books).Error
}

// Authors lists every author in insertion order
func (r *Catalog) Authors() ([]domain.Author, error) {
	var authors []domain.Author
	return authors, r.db.Find(&authors).Error
}

// Search runs the query against the index and resolves the hits back
// to store rows, keeping the engine's relevance order. Hits whose row
// has vanished since indexing are skipped.
func (r *Catalog) Search(query string) ([]domain.Author, []domain.Book, error) {
	authorIDs, bookIDs, err := r.index.Search(query)
	if err != nil {
		return nil, nil, err
	}
	var authors []domain.Author
	for _, id := range authorIDs {
		author, err := r.Author(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		authors = append(authors, *author)
	}
	var books []domain.Book
	for _, id := range bookIDs {
		book, err := r.Book(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		books = append(books, *book)
	}
	return authors, books, nil
}
