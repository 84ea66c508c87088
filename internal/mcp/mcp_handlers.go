package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codeyear/codeyear/core"
	"github.com/codeyear/codeyear/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

// applyOverrides copies the base config and applies per-call parameters.
func (h *toolHandler) applyOverrides(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if root := request.GetString("scan_root", ""); root != "" {
		cfg.ScanRoot = root
	}
	if author := request.GetString("author", ""); author != "" {
		cfg.Author = author
	}
	if depth := request.GetInt("depth", 0); depth > 0 {
		if depth > contract.MaxScanDepth {
			return nil, fmt.Errorf("depth cannot exceed %d", contract.MaxScanDepth)
		}
		cfg.ScanDepth = depth
	}
	if year := request.GetInt("year", 0); year > 0 {
		if err := contract.ApplyYearWindow(cfg, year); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (h *toolHandler) handleGetYearReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	summary, _, err := core.GetYearReport(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scan parameters: %v", err)), nil
	}

	paths, err := core.FindRepoPaths(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(paths, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRepoStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoPath := request.GetString("repo_path", "")
	if repoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}

	cfg, err := h.applyOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid stats parameters: %v", err)), nil
	}

	stats, err := core.GetRepoStats(ctx, cfg, h.client, h.mgr, repoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
