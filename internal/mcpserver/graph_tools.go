package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/graph"
)

// nodeRef is the common {id, name} projection most graph tools return
// for each neighbor, plus is_external for callers that need to tell a
// resolved hit apart from an unresolved placeholder (spec.md S3).
type nodeRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsExternal bool   `json:"is_external"`
}

func (s *Server) refFor(id string) nodeRef {
	n, ok := s.graph.Node(id)
	if !ok {
		return nodeRef{ID: id, IsExternal: true}
	}
	return nodeRef{ID: id, Name: n.Name, IsExternal: n.Kind == entity.KindExternal}
}

type functionIDParams struct {
	FunctionID string `json:"function_id"`
}

func (s *Server) handleGetFunctionCalls(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p functionIDParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_function_calls", err)
	}
	if !s.graph.Has(p.FunctionID) {
		return errorResponse("get_function_calls", fmt.Errorf("unknown function_id %q", p.FunctionID))
	}
	ids := s.graph.Successors(p.FunctionID, graph.Calls)
	refs := make([]nodeRef, len(ids))
	for i, id := range ids {
		refs[i] = s.refFor(id)
	}
	return jsonResponse(map[string]interface{}{"calls": refs})
}

func (s *Server) handleGetCallers(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p functionIDParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_callers", err)
	}
	if !s.graph.Has(p.FunctionID) {
		return errorResponse("get_callers", fmt.Errorf("unknown function_id %q", p.FunctionID))
	}
	ids := s.graph.Predecessors(p.FunctionID, graph.Calls)
	refs := make([]nodeRef, len(ids))
	for i, id := range ids {
		refs[i] = s.refFor(id)
	}
	return jsonResponse(map[string]interface{}{"callers": refs})
}

type callChainParams struct {
	FunctionID string `json:"function_id"`
	MaxDepth   int    `json:"max_depth"`
	Direction  string `json:"direction"`
}

// chainHop is one reachable node in a call chain traversal, per
// spec.md §9's cyclic-reference design note: cycles are marked, not
// specially detected, with the depth cap as the sole termination
// guarantee.
type chainHop struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Cycle bool   `json:"cycle"`
}

func (s *Server) handleGetCallChain(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p callChainParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_call_chain", err)
	}
	if !s.graph.Has(p.FunctionID) {
		return errorResponse("get_call_chain", fmt.Errorf("unknown function_id %q", p.FunctionID))
	}
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}
	neighbors := s.graph.Successors
	if p.Direction == "incoming" {
		neighbors = s.graph.Predecessors
	}

	type item struct {
		id    string
		depth int
	}
	visited := map[string]bool{p.FunctionID: true}
	queue := []item{{p.FunctionID, 0}}
	var chain []chainHop
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range neighbors(cur.id, graph.Calls) {
			n, _ := s.graph.Node(next)
			if visited[next] {
				chain = append(chain, chainHop{ID: next, Name: n.Name, Depth: cur.depth + 1, Cycle: true})
				continue
			}
			visited[next] = true
			chain = append(chain, chainHop{ID: next, Name: n.Name, Depth: cur.depth + 1})
			queue = append(queue, item{next, cur.depth + 1})
		}
	}
	return jsonResponse(map[string]interface{}{"chain": chain})
}

type classHierarchyParams struct {
	ClassID   string `json:"class_id"`
	Direction string `json:"direction"`
}

func (s *Server) handleGetClassHierarchy(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p classHierarchyParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_class_hierarchy", err)
	}
	if !s.graph.Has(p.ClassID) {
		return errorResponse("get_class_hierarchy", fmt.Errorf("unknown class_id %q", p.ClassID))
	}
	direction := p.Direction
	if direction == "" {
		direction = "both"
	}

	out := map[string]interface{}{}
	if direction == "parents" || direction == "both" {
		ids := s.graph.Successors(p.ClassID, graph.Inherits)
		refs := make([]nodeRef, len(ids))
		for i, id := range ids {
			refs[i] = s.refFor(id)
		}
		out["parents"] = refs
	}
	if direction == "children" || direction == "both" {
		ids := s.graph.Predecessors(p.ClassID, graph.Inherits)
		refs := make([]nodeRef, len(ids))
		for i, id := range ids {
			refs[i] = s.refFor(id)
		}
		out["children"] = refs
	}
	return jsonResponse(out)
}

type fileIDParams struct {
	FileID string `json:"file_id"`
}

type entitySummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

func (s *Server) handleGetFileStructure(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p fileIDParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_file_structure", err)
	}
	fileNode, ok := s.graph.Node(p.FileID)
	if !ok || fileNode.Kind != entity.KindFile {
		return errorResponse("get_file_structure", fmt.Errorf("unknown file_id %q", p.FileID))
	}
	ids := s.graph.EntitiesByFile(fileNode.FilePath)
	entities := make([]entitySummary, len(ids))
	for i, id := range ids {
		n, _ := s.graph.Node(id)
		entities[i] = entitySummary{ID: n.ID, Name: n.Name, Kind: string(n.Kind), StartLine: n.StartLine, EndLine: n.EndLine}
	}

	dependencies := make([]nodeRef, 0)
	for _, id := range s.graph.Successors(fileNode.ID, graph.Imports) {
		dependencies = append(dependencies, s.refFor(id))
	}
	dependents := make([]nodeRef, 0)
	for _, id := range s.graph.Predecessors(fileNode.ID, graph.Imports) {
		dependents = append(dependents, s.refFor(id))
	}

	return jsonResponse(map[string]interface{}{
		"file_path":    fileNode.FilePath,
		"entities":     entities,
		"dependencies": dependencies,
		"dependents":   dependents,
	})
}

type findSymbolParams struct {
	Name        string `json:"name"`
	FileContext string `json:"file_context"`
	Limit       int    `json:"limit"`
}

func (s *Server) handleFindSymbol(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findSymbolParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("find_symbol", err)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	matches := s.graph.FindSymbol(p.Name, p.FileContext, limit)
	return jsonResponse(map[string]interface{}{"matches": matches})
}

type findPathsParams struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	MaxLen int    `json:"max_len"`
}

func (s *Server) handleFindPaths(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findPathsParams
	if err := unmarshalArgs(req.Params.Arguments, &p); err != nil {
		return errorResponse("find_paths", err)
	}
	maxLen := p.MaxLen
	if maxLen <= 0 {
		maxLen = 5
	}
	if !s.graph.Has(p.Src) {
		return errorResponse("find_paths", fmt.Errorf("unknown src %q", p.Src))
	}
	if !s.graph.Has(p.Dst) {
		return errorResponse("find_paths", fmt.Errorf("unknown dst %q", p.Dst))
	}
	paths := s.graph.AllSimplePaths(p.Src, p.Dst, maxLen)
	return jsonResponse(map[string]interface{}{"paths": paths})
}

func (s *Server) handleGetConnectedComponents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	components := s.graph.WeaklyConnectedComponents()
	return jsonResponse(map[string]interface{}{"components": components})
}
