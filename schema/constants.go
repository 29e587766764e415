package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// ReplayOrder represents the chronological direction of a commit sequence.
	ReplayOrder string
)

// RootPath is the distinguished path of the repository root.
const RootPath = "."

// ReferenceIndicatorWidth is the indicator width used when no terminal is involved.
const ReferenceIndicatorWidth = 300

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All replay orders supported.
const (
	OldestFirst ReplayOrder = "oldest-first"
	NewestFirst ReplayOrder = "newest-first" // git log default
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists output modes accepted by the tree command.
// Parquet is reserved for the export command.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidReplayOrders lists all valid replay orders.
var ValidReplayOrders = map[ReplayOrder]struct{}{
	OldestFirst: {},
	NewestFirst: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
