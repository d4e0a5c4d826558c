package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// handleGetIndexStatus reads the indexer's StatusTracker and the
// graph's node counts through their own short-held read locks, which
// the indexer worker holds only for a single update, never across a
// whole batch (spec.md §5).
func (s *Server) handleGetIndexStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.pipeline.Status.Snapshot()
	stats := s.graph.Statistics()

	counts := make(map[string]int, len(stats.ByKind))
	for kind, n := range stats.ByKind {
		counts[string(kind)] = n
	}

	return jsonResponse(map[string]interface{}{
		"phase":             status.Phase,
		"last_cold_scan_at": status.LastColdScanAt,
		"stale_file_count":  status.StaleFileCount,
		"total_nodes":       stats.TotalNodes,
		"total_edges":       stats.TotalEdges,
		"counts_by_variant": counts,
	})
}
