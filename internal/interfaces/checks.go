package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ database.ConnectionFactory = (*database.SQLiteConnectionFactory)(nil)
var _ services.BookService = (*books.Repository)(nil)
var _ services.HealthChecker = (*database.SQLiteConnectionFactory)(nil)

// =============================================================================
// Request Validation
// =============================================================================

var _ services.BookValidator = (*validation.Validator)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.DatabaseOptimizer = (*database.SQLiteConnectionFactory)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
