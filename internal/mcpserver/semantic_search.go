package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeloom/codeloom/internal/vectorstore"
)

type semanticSearchParams struct {
	Query          string `json:"query"`
	Limit          int    `json:"limit"`
	EntityType     string `json:"entity_type"`
	FilePathPrefix string `json:"file_path_prefix"`
}

// semanticSearchResult is spec.md §6's literal result shape.
type semanticSearchResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FilePath   string  `json:"file_path"`
	EntityType string  `json:"entity_type"`
	Signature  string  `json:"signature"`
	Docstring  string  `json:"docstring"`
	ClassName  string  `json:"class_name"`
	StartLine  int     `json:"start_line"`
	EndLine    int     `json:"end_line"`
	Score      float64 `json:"score"`
}

// handleSemanticSearch embeds the query with the backend's asymmetric
// query-side encoding (spec.md §6, isQuery=true), then searches the
// vector store and enforces limit client-side even if the backend
// returns more hits than requested (scenario S6).
func (s *Server) handleSemanticSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p semanticSearchParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("semantic_search", err)
	}
	if p.Query == "" {
		return errorResponse("semantic_search", fmt.Errorf("query must not be empty"))
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	vectors, err := s.backend.Encode(ctx, []string{p.Query}, true)
	if err != nil {
		return errorResponse("semantic_search", err)
	}

	hits, err := s.store.Search(ctx, vectors[0], limit, vectorstore.Filter{
		Repo:           s.repo,
		EntityType:     p.EntityType,
		FilePathPrefix: p.FilePathPrefix,
	})
	if err != nil {
		return errorResponse("semantic_search", err)
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]semanticSearchResult, len(hits))
	for i, h := range hits {
		results[i] = semanticSearchResult{
			ID:         h.ID,
			Name:       h.Metadata.Name,
			FilePath:   h.Metadata.FilePath,
			EntityType: h.Metadata.EntityType,
			Signature:  h.Metadata.Signature,
			Docstring:  h.Metadata.Docstring,
			ClassName:  h.Metadata.ClassName,
			StartLine:  h.Metadata.StartLine,
			EndLine:    h.Metadata.EndLine,
			Score:      h.Similarity,
		}
	}
	return jsonResponse(map[string]interface{}{"results": results})
}
