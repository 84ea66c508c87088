package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	mcp_internal "github.com/codeyear/codeyear/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		ScanRoot:  ".",
		Author:    "alice",
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ScanDepth: 3,
		Workers:   1,
	}

	// Create a dummy manager and client; validation errors fire before either is used
	var mgr contract.CacheManager
	client := contract.NewLocalGitClient()
	s := mcp_internal.NewMCPServer(baseCfg, client, mgr)

	ctx := context.Background()

	t.Run("get_repo_stats missing repo_path", func(t *testing.T) {
		tool := s.GetTool("get_repo_stats")
		require.NotNil(t, tool, "Tool get_repo_stats should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_repo_stats",
				Arguments: map[string]any{
					"repo_path": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repo_path is required")
	})

	t.Run("get_year_report future year", func(t *testing.T) {
		tool := s.GetTool("get_year_report")
		require.NotNil(t, tool, "Tool get_year_report should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_year_report",
				Arguments: map[string]any{
					"year": float64(time.Now().Year() + 1), // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "year must be between")
	})

	t.Run("get_year_report excessive depth", func(t *testing.T) {
		tool := s.GetTool("get_year_report")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_year_report",
				Arguments: map[string]any{
					"depth": 99.0, // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "depth cannot exceed")
	})

	t.Run("list_repositories empty root", func(t *testing.T) {
		tool := s.GetTool("list_repositories")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "list_repositories",
				Arguments: map[string]any{
					"scan_root": t.TempDir(),
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "null")
	})
}
