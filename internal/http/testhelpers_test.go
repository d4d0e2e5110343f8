package http

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestFactory(t *testing.T) *database.SQLiteConnectionFactory {
	t.Helper()

	dsn := "Data Source=" + filepath.Join(t.TempDir(), "books.db")
	factory, err := database.NewSQLiteConnectionFactory(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })

	require.NoError(t, database.NewInitializer(factory).Initialize(context.Background()))
	return factory
}

func setupTestRouter(t *testing.T) (*gin.Engine, *database.SQLiteConnectionFactory) {
	t.Helper()

	factory := setupTestFactory(t)
	router := NewRouter(RouterConfig{
		BookService:   books.NewRepository(factory),
		Validator:     validation.New(),
		HealthChecker: factory,
		Version:       "test",
	})
	return router, factory
}

var errStoreDown = errors.New("store unavailable")

// failingService returns errStoreDown from every call.
type failingService struct{}

func (failingService) Create(context.Context, *entities.Book) (bool, error) { return false, errStoreDown }
func (failingService) GetByIsbn(context.Context, string) (*entities.Book, error) {
	return nil, errStoreDown
}
func (failingService) GetAll(context.Context) ([]entities.Book, error) { return nil, errStoreDown }
func (failingService) SearchByTitle(context.Context, string) ([]entities.Book, error) {
	return nil, errStoreDown
}
func (failingService) Update(context.Context, *entities.Book) (bool, error) { return false, errStoreDown }
func (failingService) Delete(context.Context, string) (bool, error)         { return false, errStoreDown }
