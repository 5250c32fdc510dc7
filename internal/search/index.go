package search

import (
	"os"      // For checking whether an on-disk index exists
	"strconv" // For parsing entity ids out of document ids
	"strings" // For splitting document ids

	"bookstore/internal/domain" // Importing domain models

	"github.com/blevesearch/bleve/v2" // Full-text indexing engine
	"gorm.io/gorm"                    // GORM ORM library
)

// Document id prefixes, one namespace per indexed entity
const (
	bookPrefix   = "book:"
	authorPrefix = "author:"
)

// maxHits caps a single search; the storefront renders everything it gets
const maxHits = 100

// document is the shape stored in the index: a single searchable text field
type document struct {
	Text string `json:"text"` // Book title or author name
}

// Index wraps the bleve index that mirrors the catalog's searchable fields
type Index struct {
	idx bleve.Index // Underlying bleve index
}

// Open opens the search index at path, creating it if missing.
// An empty path yields a memory-only index.
func Open(path string) (*Index, error) {
	mapping := bleve.NewIndexMapping() // Default mapping with the standard analyzer
	if path == "" {
		idx, err := bleve.NewMemOnly(mapping) // In-memory index for tests and dev
		if err != nil {
			return nil, err
		}
		return &Index{idx: idx}, nil
	}
	if _, err := os.Stat(path); err == nil {
		idx, err := bleve.Open(path) // Reuse an existing on-disk index
		if err != nil {
			return nil, err
		}
		return &Index{idx: idx}, nil
	}
	idx, err := bleve.New(path, mapping) // Create a fresh on-disk index
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

// Close releases the underlying index
func (i *Index) Close() error {
	return i.idx.Close()
}

// IndexBook inserts or replaces the book's searchable text
func (i *Index) IndexBook(b *domain.Book) error {
	return i.idx.Index(bookPrefix+strconv.FormatUint(uint64(b.ID), 10), document{Text: b.Title})
}

// IndexAuthor inserts or replaces the author's searchable text
func (i *Index) IndexAuthor(a *domain.Author) error {
	return i.idx.Index(authorPrefix+strconv.FormatUint(uint64(a.ID), 10), document{Text: a.Name})
}

// RemoveBook drops the book from the index
func (i *Index) RemoveBook(id uint) error {
	return i.idx.Delete(bookPrefix + strconv.FormatUint(uint64(id), 10))
}

// RemoveAuthor drops the author from the index
func (i *Index) RemoveAuthor(id uint) error {
	return i.idx.Delete(authorPrefix + strconv.FormatUint(uint64(id), 10))
}

// Search tokenizes the query and returns matching author and book ids in
// the engine's relevance order. An empty query returns empty results
// without touching the index.
func (i *Index) Search(query string) (authorIDs, bookIDs []uint, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, nil
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = maxHits
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, nil, err
	}
	for _, hit := range res.Hits {
		kind, raw, ok := strings.Cut(hit.ID, ":")
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		switch kind + ":" {
		case authorPrefix:
			authorIDs = append(authorIDs, uint(id))
		case bookPrefix:
			bookIDs = append(bookIDs, uint(id))
		}
	}
	return authorIDs, bookIDs, nil
}

// Rebuild reloads every book title and author name from the store,
// making the index consistent again after a restart or crash.
func (i *Index) Rebuild(g *gorm.DB) error {
	batch := i.idx.NewBatch()
	var books []domain.Book
	if err := g.Find(&books).Error; err != nil {
		return err
	}
	for _, b := range books {
		if err := batch.Index(bookPrefix+strconv.FormatUint(uint64(b.ID), 10), document{Text: b.Title}); err != nil {
			return err
		}
	}
	var authors []domain.Author
	if err := g.Find(&authors).Error; err != nil {
		return err
	}
	for _, a := range authors {
		if err := batch.Index(authorPrefix+strconv.FormatUint(uint64(a.ID), 10), document{Text: a.Name}); err != nil {
			return err
		}
	}
	return i.idx.Batch(batch)
}
