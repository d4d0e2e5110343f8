package config

// Defaults for values that are also referenced outside NewConfig.
const (
	// DefaultConnectionString is the catalog database used when none is configured.
	DefaultConnectionString = "Data Source=./library.db"

	// DefaultTasksDatabasePath is where the maintenance task queue keeps its state.
	DefaultTasksDatabasePath = "./library-tasks.db"

	// DefaultAPIKeyHeader carries the shared secret in apikey auth mode.
	DefaultAPIKeyHeader = "X-Api-Key"

	// DefaultMaintenanceSchedule runs store maintenance daily at 03:00.
	DefaultMaintenanceSchedule = "0 3 * * *"
)
