// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Codeyear MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Codeyear Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_year_report ---
	s.AddTool(mcp.NewTool("get_year_report",
		mcp.WithDescription("Build a personal year-in-code report across all repositories under a scan root."),
		mcp.WithString("scan_root", mcp.Description("Directory to scan for Git repositories (defaults to the configured root).")),
		mcp.WithString("author", mcp.Description("Author name or email to analyze (defaults to the configured author).")),
		mcp.WithNumber("year", mcp.Description("Calendar year to report on. Defaults to the configured window.")),
		mcp.WithNumber("depth", mcp.Description("Maximum directory depth to scan.")),
	), h.handleGetYearReport)

	// --- 2. Tool: list_repositories ---
	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List the Git repositories that a report run would cover."),
		mcp.WithString("scan_root", mcp.Description("Directory to scan for Git repositories.")),
		mcp.WithNumber("depth", mcp.Description("Maximum directory depth to scan.")),
	), h.handleListRepositories)

	// --- 3. Tool: get_repo_stats ---
	s.AddTool(mcp.NewTool("get_repo_stats",
		mcp.WithDescription("Compute the per-repository statistics for one Git repository."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository."), mcp.Required()),
		mcp.WithString("author", mcp.Description("Author name or email to analyze.")),
		mcp.WithNumber("year", mcp.Description("Calendar year to report on.")),
	), h.handleGetRepoStats)

	return s
}

// StartMCPServer starts the Codeyear MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
