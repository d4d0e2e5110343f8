package services

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

// BookService is the catalog's read/write surface. Write methods report
// whether a row changed; "absent" is not an error.
type BookService interface {
	Create(ctx context.Context, book *entities.Book) (bool, error)
	GetByIsbn(ctx context.Context, isbn string) (*entities.Book, error)
	GetAll(ctx context.Context) ([]entities.Book, error)
	SearchByTitle(ctx context.Context, term string) ([]entities.Book, error)
	Update(ctx context.Context, book *entities.Book) (bool, error)
	Delete(ctx context.Context, isbn string) (bool, error)
}

// BookValidator checks a book's fields before it is written.
type BookValidator interface {
	ValidateBook(book *entities.Book) []validation.Failure
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
