package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/schema"
)

// writeReportCSV writes the per-repository ranking in CSV format. The flat
// row shape keeps the file loadable in spreadsheets without JSON parsing.
func writeReportCSV(w io.Writer, summary *schema.GlobalSummary) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{
		"rank",
		"repository",
		"commits",
		"commit_share",
		"author",
		"window_start",
		"window_end",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range summary.TopRepos {
		rec := []string{
			strconv.Itoa(i + 1),
			r.Name,
			strconv.Itoa(r.Commits),
			fmt.Sprintf("%.3f", r.CommitRatio),
			summary.Author,
			summary.From.Format(contract.DateTimeFormat),
			summary.To.Format(contract.DateTimeFormat),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
