package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// ValidOutputModes is the allow-list used during config validation.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends is the allow-list used during config validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ConventionalCommitTypes is the fixed vocabulary used to classify commit
// messages. A commit matching none of these contributes to no type bucket
// but still counts toward totals.
var ConventionalCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"perf", "test", "chore", "build", "ci", "revert",
}

// QuarterKeys are the four buckets of the quarter distribution, in order.
var QuarterKeys = []string{"Q1", "Q2", "Q3", "Q4"}
