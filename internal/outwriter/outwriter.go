// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/parquet"
	"github.com/codeyear/codeyear/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the report pipeline.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the merged year report using the configured output format.
func (ow *OutWriter) WriteReport(summary *schema.GlobalSummary, repos []*schema.RepoStats, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, summary)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeReportParquet(repos, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable report
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, summary, cfg, duration)
		}, "Wrote report")
	}
	return nil
}

// WriteRepoList prints the discovered repository paths.
func (ow *OutWriter) WriteRepoList(paths []string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, paths)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, p := range paths {
				if _, err := fmt.Fprintln(w, p); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "Found %d repositories\n", len(paths))
			return err
		}, "Wrote list")
	}
}

// writeReportParquet writes the per-repository rows of the report as a Parquet file.
func writeReportParquet(repos []*schema.RepoStats, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	rows, err := parquet.ConvertRepoStats(repos)
	if err != nil {
		return err
	}
	return parquet.WriteRepoStatsParquet(rows, outputFile)
}
