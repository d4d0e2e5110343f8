// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ConnectionFactory: Scoped store connections (internal/database/connection.go)
//   - BookService: Catalog CRUD and title search (internal/services/interfaces.go)
//   - HealthChecker: Store reachability (internal/services/interfaces.go)
//
// ## Request Validation
//
//   - BookValidator: Field-level checks before writes (internal/services/interfaces.go)
//
// ## Background Work
//
//   - DatabaseOptimizer: Store maintenance run by the task queue (internal/tasks/optimize_database.go)
//   - Enqueuer: Schedules tasks onto the queue (internal/scheduler/maintenance.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., authors):
//
//  1. Create sub-package: internal/database/authors/
//
//  2. Define repository:
//
//     type Repository struct { factory database.ConnectionFactory }
//
//     func NewRepository(factory database.ConnectionFactory) *Repository
//
//  3. Extend Initializer with the table's CREATE TABLE IF NOT EXISTS statement
//
//  4. Add compile-time check:
//
//     var _ services.AuthorService = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
