package books

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books.db")

	factory, err := database.NewSQLiteConnectionFactory(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { factory.Close() })

	require.NoError(t, database.NewInitializer(factory).Initialize(context.Background()))
	return NewRepository(factory)
}

func newBook(isbn, title string) *entities.Book {
	return &entities.Book{
		Isbn:             isbn,
		Title:            title,
		Author:           "Federico",
		ShortDescription: "Find your own path with the greatest samples",
		PageCount:        444,
		ReleaseDate:      entities.NewDate(2023, time.January, 1),
	}
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("created book can be read back", func(t *testing.T) {
		repo := setupTestRepo(t)
		book := newBook("123-1231231230", "Learning Go")

		created, err := repo.Create(ctx, book)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := repo.GetByIsbn(ctx, book.Isbn)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *book, *got)
	})

	t.Run("second create with same isbn is rejected", func(t *testing.T) {
		repo := setupTestRepo(t)
		original := newBook("123-1231231230", "Original")
		_, err := repo.Create(ctx, original)
		require.NoError(t, err)

		created, err := repo.Create(ctx, newBook("123-1231231230", "Impostor"))
		require.NoError(t, err)
		assert.False(t, created)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Original", all[0].Title)
	})

	t.Run("concurrent creates of one isbn succeed exactly once", func(t *testing.T) {
		repo := setupTestRepo(t)

		var wg sync.WaitGroup
		var successes atomic.Int32
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				created, err := repo.Create(ctx, newBook("978-0000000001", fmt.Sprintf("Racer %d", i)))
				assert.NoError(t, err)
				if created {
					successes.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), successes.Load())
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestRepository_GetByIsbn(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil for unknown isbn", func(t *testing.T) {
		repo := setupTestRepo(t)

		got, err := repo.GetByIsbn(ctx, "999-9999999999")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepository_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty non-nil slice when store is empty", func(t *testing.T) {
		repo := setupTestRepo(t)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("returns every book", func(t *testing.T) {
		repo := setupTestRepo(t)
		want := []entities.Book{
			*newBook("111-1111111111", "One"),
			*newBook("222-2222222222", "Two"),
			*newBook("333-3333333333", "Three"),
		}
		for i := range want {
			_, err := repo.Create(ctx, &want[i])
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, want, all)
	})
}

func TestRepository_SearchByTitle(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	titles := map[string]string{
		"111-1111111111": "Learning Go extra",
		"222-2222222222": "Learning Rust",
		"333-3333333333": "Extra Patterns",
		"444-4444444444": "100% Go",
		"555-5555555555": "1000 Go",
		"666-6666666666": "snake_case names",
		"777-7777777777": "snakeXcase names",
	}
	for isbn, title := range titles {
		_, err := repo.Create(ctx, newBook(isbn, title))
		require.NoError(t, err)
	}

	search := func(term string) []string {
		t.Helper()
		found, err := repo.SearchByTitle(ctx, term)
		require.NoError(t, err)
		isbns := make([]string, 0, len(found))
		for _, b := range found {
			isbns = append(isbns, b.Isbn)
		}
		return isbns
	}

	t.Run("matches substring anywhere in title", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"111-1111111111", "333-3333333333"}, search("xtr"))
	})

	t.Run("uses store collation for case", func(t *testing.T) {
		// SQLite LIKE is case-insensitive for ASCII.
		assert.ElementsMatch(t, []string{"111-1111111111", "333-3333333333"}, search("EXTRA"))
	})

	t.Run("percent sign matches literally", func(t *testing.T) {
		assert.Equal(t, []string{"444-4444444444"}, search("0%"))
	})

	t.Run("underscore matches literally", func(t *testing.T) {
		assert.Equal(t, []string{"666-6666666666"}, search("e_c"))
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		found, err := repo.SearchByTitle(ctx, "Haskell")
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites all non-key fields", func(t *testing.T) {
		repo := setupTestRepo(t)
		book := newBook("123-1231231230", "Before")
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)

		changed := &entities.Book{
			Isbn:             book.Isbn,
			Title:            "After",
			Author:           "Someone Else",
			ShortDescription: "",
			PageCount:        0,
			ReleaseDate:      entities.NewDate(2024, time.February, 29),
		}
		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		assert.True(t, updated)

		got, err := repo.GetByIsbn(ctx, book.Isbn)
		require.NoError(t, err)
		assert.Equal(t, *changed, *got)
	})

	t.Run("reports not updated for unknown isbn and leaves store unchanged", func(t *testing.T) {
		repo := setupTestRepo(t)
		existing := newBook("111-1111111111", "Existing")
		_, err := repo.Create(ctx, existing)
		require.NoError(t, err)

		updated, err := repo.Update(ctx, newBook("999-9999999999", "Ghost"))
		require.NoError(t, err)
		assert.False(t, updated)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entities.Book{*existing}, all)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes existing book", func(t *testing.T) {
		repo := setupTestRepo(t)
		book := newBook("123-1231231230", "Doomed")
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, book.Isbn)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := repo.GetByIsbn(ctx, book.Isbn)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("reports not deleted for unknown isbn", func(t *testing.T) {
		repo := setupTestRepo(t)

		deleted, err := repo.Delete(ctx, "999-9999999999")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("second delete reports not deleted", func(t *testing.T) {
		repo := setupTestRepo(t)
		book := newBook("123-1231231230", "Doomed")
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)

		first, err := repo.Delete(ctx, book.Isbn)
		require.NoError(t, err)
		second, err := repo.Delete(ctx, book.Isbn)
		require.NoError(t, err)
		assert.True(t, first)
		assert.False(t, second)
	})
}

func TestRepository_StoreFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "closed.db")
	factory, err := database.NewSQLiteConnectionFactory(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, factory.Close())

	repo := NewRepository(factory)
	_, err = repo.GetAll(context.Background())
	assert.Error(t, err)
	_, err = repo.Create(context.Background(), newBook("123-1231231230", "Nope"))
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
