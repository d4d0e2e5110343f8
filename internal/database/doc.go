// Package database provides access to the catalog's SQLite store.
//
// # Connections
//
// A ConnectionFactory hands out one pooled connection per call and releases it
// when the callback returns:
//
//	factory, err := database.NewSQLiteConnectionFactory("Data Source=./library.db")
//	err = factory.WithConnection(ctx, func(conn *gorm.DB) error {
//		return conn.Exec("SELECT 1").Error
//	})
//
// # Schema
//
// Initializer issues an idempotent CREATE TABLE IF NOT EXISTS at startup:
//
//	err = database.NewInitializer(factory).Initialize(ctx)
//
// # Domain repositories
//
// Domain-specific operations live in sub-packages that take a ConnectionFactory:
//
//	database/
//	├── connection.go   # Connection factory, connection string parsing
//	├── initializer.go  # Schema creation
//	└── books/          # Book CRUD and title search
package database
