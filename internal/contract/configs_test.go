package contract_test

import (
	"testing"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *contract.ConfigRawInput {
	return &contract.ConfigRawInput{
		ScanRootStr:  ".",
		Author:       "alice",
		Depth:        contract.DefaultScanDepth,
		Workers:      4,
		Output:       "text",
		CacheBackend: "sqlite",
		Emoji:        "yes",
		Color:        "yes",
	}
}

func TestProcessAndValidateHappyPath(t *testing.T) {
	cfg := &contract.Config{}
	input := validInput()

	require.NoError(t, contract.ProcessAndValidate(cfg, input))

	assert.Equal(t, "alice", cfg.Author)
	assert.Equal(t, contract.DefaultScanDepth, cfg.ScanDepth)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.True(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
	assert.Contains(t, cfg.Excludes, "node_modules/")

	// Default window is the current calendar year.
	assert.Equal(t, time.Now().Year(), cfg.StartTime.Year())
	assert.Equal(t, time.January, cfg.StartTime.Month())
	assert.False(t, cfg.StartTime.After(cfg.EndTime))
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *contract.ConfigRawInput)
		errMsg string
	}{
		{"Missing Author", func(in *contract.ConfigRawInput) { in.Author = " " }, "author"},
		{"Zero Depth", func(in *contract.ConfigRawInput) { in.Depth = 0 }, "depth"},
		{"Excessive Depth", func(in *contract.ConfigRawInput) { in.Depth = 99 }, "depth"},
		{"Zero Workers", func(in *contract.ConfigRawInput) { in.Workers = 0 }, "workers"},
		{"Bad Output", func(in *contract.ConfigRawInput) { in.Output = "xml" }, "output"},
		{"Bad Backend", func(in *contract.ConfigRawInput) { in.CacheBackend = "oracle" }, "backend"},
		{"Bad Emoji", func(in *contract.ConfigRawInput) { in.Emoji = "maybe" }, "emoji"},
		{"Future Year", func(in *contract.ConfigRawInput) { in.Year = time.Now().Year() + 1 }, "year"},
		{"Bad Start", func(in *contract.ConfigRawInput) { in.Start = "yesterday-ish" }, "start date"},
		{"Start After End", func(in *contract.ConfigRawInput) {
			in.Start = "2024-06-01T00:00:00Z"
			in.End = "2024-01-01T00:00:00Z"
		}, "cannot be after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := contract.ProcessAndValidate(&contract.Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProcessAndValidateExplicitWindow(t *testing.T) {
	cfg := &contract.Config{}
	input := validInput()
	input.Start = "2023-01-01T00:00:00Z"
	input.End = "2023-12-31T00:00:00Z"

	require.NoError(t, contract.ProcessAndValidate(cfg, input))

	assert.Equal(t, 2023, cfg.StartTime.Year())
	assert.Equal(t, 2023, cfg.EndTime.Year())
}

func TestProcessAndValidatePastYear(t *testing.T) {
	cfg := &contract.Config{}
	input := validInput()
	input.Year = 2022

	require.NoError(t, contract.ProcessAndValidate(cfg, input))

	assert.Equal(t, 2022, cfg.StartTime.Year())
	// A closed year runs through 1 January of the next year.
	assert.Equal(t, 2023, cfg.EndTime.Year())
}

func TestProcessAndValidateCustomExcludes(t *testing.T) {
	cfg := &contract.Config{}
	input := validInput()
	input.Exclude = "scratch/, *.bak , "

	require.NoError(t, contract.ProcessAndValidate(cfg, input))

	assert.Contains(t, cfg.Excludes, "scratch/")
	assert.Contains(t, cfg.Excludes, "*.bak")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"SQLite Empty OK", schema.SQLiteBackend, "", false},
		{"None Empty OK", schema.NoneBackend, "", false},
		{"MySQL Valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/codeyear", false},
		{"MySQL Missing TCP", schema.MySQLBackend, "user:pass^localhost/codeyear", true},
		{"MySQL Empty", schema.MySQLBackend, "", true},
		{"Postgres Valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=codeyear", false},
		{"Postgres Missing Host", schema.PostgreSQLBackend, "dbname=codeyear", true},
		{"Postgres Empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := contract.ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &contract.Config{Author: "alice", Excludes: []string{"vendor/"}}
	clone := cfg.Clone()
	clone.Excludes[0] = "changed/"

	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Equal(t, "alice", clone.Author)
}

func TestGetWindowTruncation(t *testing.T) {
	cfg := &contract.Config{
		StartTime: time.Date(2024, 3, 1, 10, 42, 17, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC),
	}

	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), cfg.GetWindowStart())
	assert.Equal(t, time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC), cfg.GetWindowEnd())
}
