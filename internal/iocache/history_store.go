package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/schema"
)

// Table names for report history storage.
const (
	reportRunsTable = "codeyear_report_runs"
	repoStatsTable  = "codeyear_repo_stats"
	summariesTable  = "codeyear_summaries"
)

// HistoryStoreImpl stores report runs and their per-repository results.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore initializes and returns a new HistoryStore based on the backend type.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite history at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL history: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL history: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &HistoryStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	store := &HistoryStoreImpl{
		db:      db,
		backend: backend,
		connStr: connStr,
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// createTables creates the report history tables if they don't exist.
func (hs *HistoryStoreImpl) createTables() error {
	for _, query := range getHistoryTableQueries(hs.backend) {
		if _, err := hs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create history tables: %w", err)
		}
	}
	return nil
}

// getHistoryTableQueries returns the CREATE TABLE statements for the backend,
// in dependency order.
func getHistoryTableQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					start_time DATETIME(6) NOT NULL,
					end_time DATETIME(6),
					run_duration_ms BIGINT,
					total_repos INT,
					config_params JSON
				);
			`, quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT NOT NULL,
					repo_name VARCHAR(255) NOT NULL,
					commits INT NOT NULL,
					insertions INT NOT NULL,
					deletions INT NOT NULL,
					net_lines INT NOT NULL,
					longest_streak_days INT NOT NULL,
					night_rate DOUBLE NOT NULL,
					stats_json JSON NOT NULL,
					PRIMARY KEY (run_id, repo_name),
					FOREIGN KEY (run_id) REFERENCES %s(run_id)
				);
			`, quoteTableName(repoStatsTable, backend), quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT PRIMARY KEY,
					summary_json JSON NOT NULL,
					FOREIGN KEY (run_id) REFERENCES %s(run_id)
				);
			`, quoteTableName(summariesTable, backend), quoteTableName(reportRunsTable, backend)),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGSERIAL PRIMARY KEY,
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ,
					run_duration_ms BIGINT,
					total_repos INTEGER,
					config_params JSONB
				);
			`, quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT NOT NULL REFERENCES %s(run_id),
					repo_name TEXT NOT NULL,
					commits INTEGER NOT NULL,
					insertions INTEGER NOT NULL,
					deletions INTEGER NOT NULL,
					net_lines INTEGER NOT NULL,
					longest_streak_days INTEGER NOT NULL,
					night_rate DOUBLE PRECISION NOT NULL,
					stats_json JSONB NOT NULL,
					PRIMARY KEY (run_id, repo_name)
				);
			`, quoteTableName(repoStatsTable, backend), quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT PRIMARY KEY REFERENCES %s(run_id),
					summary_json JSONB NOT NULL
				);
			`, quoteTableName(summariesTable, backend), quoteTableName(reportRunsTable, backend)),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id INTEGER PRIMARY KEY AUTOINCREMENT,
					start_time TEXT NOT NULL,
					end_time TEXT,
					run_duration_ms INTEGER,
					total_repos INTEGER,
					config_params TEXT
				);
			`, quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id INTEGER NOT NULL,
					repo_name TEXT NOT NULL,
					commits INTEGER NOT NULL,
					insertions INTEGER NOT NULL,
					deletions INTEGER NOT NULL,
					net_lines INTEGER NOT NULL,
					longest_streak_days INTEGER NOT NULL,
					night_rate REAL NOT NULL,
					stats_json TEXT NOT NULL,
					PRIMARY KEY (run_id, repo_name),
					FOREIGN KEY (run_id) REFERENCES %s(run_id)
				);
			`, quoteTableName(repoStatsTable, backend), quoteTableName(reportRunsTable, backend)),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id INTEGER PRIMARY KEY,
					summary_json TEXT NOT NULL,
					FOREIGN KEY (run_id) REFERENCES %s(run_id)
				);
			`, quoteTableName(summariesTable, backend), quoteTableName(reportRunsTable, backend)),
		}
	}
}

// placeholder returns the parameter placeholder for position n (1-based).
func (hs *HistoryStoreImpl) placeholder(n int) string {
	if hs.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// BeginRun records the start of a report run and returns its run ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	paramsJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTable := quoteTableName(reportRunsTable, hs.backend)

	if hs.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTable)
		var runID int64
		if err := hs.db.QueryRow(query, startTime, string(paramsJSON)).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to begin report run: %w", err)
		}
		return runID, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTable)
	result, err := hs.db.Exec(query, formatTime(startTime, hs.backend), string(paramsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to begin report run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// EndRun marks a report run as complete, recording its duration and repo count.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, repoCount int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTable := quoteTableName(reportRunsTable, hs.backend)

	// Compute duration from the stored start time rather than trusting
	// the caller to carry it around.
	var startTime time.Time
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTable, hs.placeholder(1))
	if hs.backend == schema.SQLiteBackend {
		var raw string
		if err := hs.db.QueryRow(selectQuery, runID).Scan(&raw); err != nil {
			return fmt.Errorf("failed to look up run %d: %w", runID, err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("failed to parse start time for run %d: %w", runID, err)
		}
		startTime = parsed
	} else {
		if err := hs.db.QueryRow(selectQuery, runID).Scan(&startTime); err != nil {
			return fmt.Errorf("failed to look up run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_repos = %s WHERE run_id = %s`,
		quotedTable, hs.placeholder(1), hs.placeholder(2), hs.placeholder(3), hs.placeholder(4))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, repoCount, runID); err != nil {
		return fmt.Errorf("failed to end report run %d: %w", runID, err)
	}
	return nil
}

// RecordRepoStats stores one repository's stats under a report run. The
// headline numbers land in flat columns for SQL queries; the full struct is
// kept as JSON.
func (hs *HistoryStoreImpl) RecordRepoStats(runID int64, stats *schema.RepoStats) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for %s: %w", stats.Name, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, repo_name, commits, insertions, deletions, net_lines, longest_streak_days, night_rate, stats_json)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		quoteTableName(repoStatsTable, hs.backend),
		hs.placeholder(1), hs.placeholder(2), hs.placeholder(3), hs.placeholder(4), hs.placeholder(5),
		hs.placeholder(6), hs.placeholder(7), hs.placeholder(8), hs.placeholder(9))

	_, err = hs.db.Exec(query, runID, stats.Name,
		stats.Commits, stats.Insertions, stats.Deletions, stats.NetLines,
		stats.LongestStreakDays, stats.NightRate, string(statsJSON))
	if err != nil {
		return fmt.Errorf("failed to record stats for %s: %w", stats.Name, err)
	}
	return nil
}

// RecordSummary stores the merged summary under a report run.
func (hs *HistoryStoreImpl) RecordSummary(runID int64, summary *schema.GlobalSummary) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, summary_json) VALUES (%s, %s)`,
		quoteTableName(summariesTable, hs.backend), hs.placeholder(1), hs.placeholder(2))
	if _, err := hs.db.Exec(query, runID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to record summary for run %d: %w", runID, err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(reportRunsTable, hs.backend)

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count report runs: %w", err)
	}

	row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(repoStatsTable, hs.backend)))
	if err := row.Scan(&status.TotalRepos); err != nil {
		return status, fmt.Errorf("failed to count repo stats rows: %w", err)
	}

	for _, table := range []string{reportRunsTable, repoStatsTable, summariesTable} {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err == nil {
			status.TableSizes[table] = count
		}
	}

	if status.TotalRuns == 0 {
		return status, nil
	}

	if hs.backend == schema.SQLiteBackend {
		var lastID int64
		var lastRaw, oldestRaw string
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&lastID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run: %w", err)
		}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable))
		if err := row.Scan(&oldestRaw); err != nil {
			return status, fmt.Errorf("failed to get oldest run: %w", err)
		}
		status.LastRunID = lastID
		if t, err := time.Parse(time.RFC3339Nano, lastRaw); err == nil {
			status.LastRunTime = t
		}
		if t, err := time.Parse(time.RFC3339Nano, oldestRaw); err == nil {
			status.OldestRunTime = t
		}
		return status, nil
	}

	row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
	if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
		return status, fmt.Errorf("failed to get last run: %w", err)
	}
	row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable))
	if err := row.Scan(&status.OldestRunTime); err != nil {
		return status, fmt.Errorf("failed to get oldest run: %w", err)
	}
	return status, nil
}

// GetAllReportRuns reads every report run row, oldest first. Used by export.
func (hs *HistoryStoreImpl) GetAllReportRuns() ([]schema.ReportRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, total_repos, config_params FROM %s ORDER BY run_id ASC`,
		quoteTableName(reportRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to read report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ReportRunRecord
	for rows.Next() {
		var rec schema.ReportRunRecord
		if hs.backend == schema.SQLiteBackend {
			var startRaw string
			var endRaw *string
			if err := rows.Scan(&rec.RunID, &startRaw, &endRaw, &rec.RunDurationMs, &rec.TotalRepos, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			if t, err := time.Parse(time.RFC3339Nano, startRaw); err == nil {
				rec.StartTime = t
			}
			if endRaw != nil {
				if t, err := time.Parse(time.RFC3339Nano, *endRaw); err == nil {
					rec.EndTime = &t
				}
			}
		} else {
			if err := rows.Scan(&rec.RunID, &rec.StartTime, &rec.EndTime, &rec.RunDurationMs, &rec.TotalRepos, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetAllRepoStats reads every repo stats row, oldest run first. Used by export.
func (hs *HistoryStoreImpl) GetAllRepoStats() ([]schema.RepoStatsRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repo_name, commits, insertions, deletions, net_lines, longest_streak_days, night_rate, stats_json FROM %s ORDER BY run_id ASC, repo_name ASC`,
		quoteTableName(repoStatsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to read repo stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RepoStatsRecord
	for rows.Next() {
		var rec schema.RepoStatsRecord
		if err := rows.Scan(&rec.RunID, &rec.RepoName, &rec.Commits, &rec.Insertions, &rec.Deletions,
			&rec.NetLines, &rec.LongestStreakDays, &rec.NightRate, &rec.StatsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan repo stats: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
