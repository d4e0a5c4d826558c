package mcpserver

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type reindexParams struct {
	Path   string `json:"path"`
	Full   bool   `json:"full"`
	DryRun bool   `json:"dry_run"`
}

// handleReindex resolves path (repo-relative, per every other tool's
// id convention) against the indexed repo root before delegating to
// the pipeline, which operates on filesystem paths.
func (s *Server) handleReindex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reindexParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("reindex", err)
	}

	absPath := ""
	if p.Path != "" {
		absPath = filepath.Join(s.pipeline.Config.RepoPath, p.Path)
	}

	if p.DryRun {
		diff, err := s.pipeline.DryRun(ctx, absPath)
		if err != nil {
			return errorResponse("reindex", err)
		}
		return jsonResponse(map[string]interface{}{
			"dry_run": true,
			"added":   diff.Added,
			"updated": diff.Updated,
			"deleted": diff.Deleted,
			"skipped": diff.Skipped,
			"errors":  diff.Errors,
		})
	}

	out, err := s.pipeline.Reindex(ctx, absPath, p.Full)
	if err != nil {
		return errorResponse("reindex", err)
	}
	return jsonResponse(map[string]interface{}{
		"dry_run": false,
		"added":   out.Added,
		"updated": out.Updated,
		"deleted": out.Deleted,
		"skipped": out.Skipped,
		"errors":  out.Errors,
	})
}
