package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

const createBooksTable = `CREATE TABLE IF NOT EXISTS Books (
	Isbn TEXT PRIMARY KEY,
	Title TEXT NOT NULL,
	Author TEXT NOT NULL,
	ShortDescription TEXT NOT NULL,
	PageCount INTEGER,
	ReleaseDate TEXT NOT NULL
)`

// Initializer creates the catalog schema if it does not exist yet.
type Initializer struct {
	factory ConnectionFactory
}

func NewInitializer(factory ConnectionFactory) *Initializer {
	return &Initializer{factory: factory}
}

// Initialize is safe to run on every startup.
func (i *Initializer) Initialize(ctx context.Context) error {
	err := i.factory.WithConnection(ctx, func(conn *gorm.DB) error {
		return conn.Exec(createBooksTable).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create Books table: %w", err)
	}
	log.Printf("Database schema initialized")
	return nil
}
