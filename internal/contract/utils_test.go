package contract_test

import (
	"testing"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestShouldIgnore(t *testing.T) {
	excludes := []string{"vendor/", ".bak", "*.tmp", "scratch"}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Prefix Match", "vendor/lib/util.go", true},
		{"Prefix Miss", "internal/vendorish.go", false},
		{"Suffix Match", "notes.bak", true},
		{"Glob Match", "cache.tmp", true},
		{"Glob Base Match", "deep/dir/cache.tmp", true},
		{"Substring Match", "old/scratch/file.go", true},
		{"No Match", "core/builder.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, contract.ShouldIgnore(tt.path, excludes))
		})
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"Short Path Unchanged", "main.go", 20, "main.go"},
		{"Long Path Truncated", "internal/outwriter/report_text.go", 20, "...er/report_text.go"},
		{"Width Too Small", "internal/outwriter/report_text.go", 3, "internal/outwriter/report_text.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, contract.TruncatePath(tt.path, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := contract.ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
