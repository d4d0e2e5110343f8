// Package books provides database operations for the book catalog.
//
// Every operation takes its own connection from the ConnectionFactory and
// releases it before returning. Writes are single conditional statements
// judged by their affected-row count, so two callers racing on the same ISBN
// cannot both succeed.
//
// # Usage
//
//	repo := books.NewRepository(factory)
//	created, err := repo.Create(ctx, &book)
package books

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	factory database.ConnectionFactory
}

// NewRepository creates a new books repository.
func NewRepository(factory database.ConnectionFactory) *Repository {
	return &Repository{factory: factory}
}

// Create inserts the book unless a book with the same ISBN already exists.
// It reports false, without error, when the ISBN is taken.
func (r *Repository) Create(ctx context.Context, book *entities.Book) (bool, error) {
	var affected int64
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		result := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(book)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("create book %s: %w", book.Isbn, err)
	}
	return affected > 0, nil
}

// GetByIsbn returns the book with the given ISBN, or nil if there is none.
func (r *Repository) GetByIsbn(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	var found int64
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		result := conn.Where("Isbn = ?", isbn).Limit(1).Find(&book)
		found = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", isbn, err)
	}
	if found == 0 {
		return nil, nil
	}
	return &book, nil
}

// GetAll returns every book in store order.
func (r *Repository) GetAll(ctx context.Context) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Find(&books).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get all books: %w", err)
	}
	return books, nil
}

// SearchByTitle returns the books whose title contains term. Case sensitivity
// follows the store's LIKE semantics; wildcard characters in term match literally.
func (r *Repository) SearchByTitle(ctx context.Context, term string) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	pattern := "%" + escapeLike(term) + "%"
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Where(`Title LIKE ? ESCAPE '\'`, pattern).Find(&books).Error
	})
	if err != nil {
		return nil, fmt.Errorf("search books by title %q: %w", term, err)
	}
	return books, nil
}

// Update overwrites every non-key field of an existing book. It reports false,
// without error, when no book has the ISBN.
func (r *Repository) Update(ctx context.Context, book *entities.Book) (bool, error) {
	var affected int64
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		result := conn.Model(&entities.Book{}).
			Where("Isbn = ?", book.Isbn).
			Updates(map[string]any{
				"Title":            book.Title,
				"Author":           book.Author,
				"ShortDescription": book.ShortDescription,
				"PageCount":        book.PageCount,
				"ReleaseDate":      book.ReleaseDate,
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("update book %s: %w", book.Isbn, err)
	}
	return affected > 0, nil
}

// Delete removes the book with the given ISBN. It reports false, without
// error, when there is nothing to delete.
func (r *Repository) Delete(ctx context.Context, isbn string) (bool, error) {
	var affected int64
	err := r.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		result := conn.Where("Isbn = ?", isbn).Delete(&entities.Book{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("delete book %s: %w", isbn, err)
	}
	return affected > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
