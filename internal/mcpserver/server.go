// Package mcpserver is the MCP tool surface (spec.md §6): graph
// queries, semantic search, index status, and reindex, each wired
// directly to the already-built graph, vector store, and pipeline
// rather than going through a query-specific service layer, per the
// teacher's own "server holds the collaborators, handlers read them
// directly" shape (internal/mcp/server.go).
package mcpserver

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeloom/codeloom/internal/embedbackend"
	"github.com/codeloom/codeloom/internal/graph"
	"github.com/codeloom/codeloom/internal/pipeline"
	"github.com/codeloom/codeloom/internal/vectorstore"
)

// Server implements the MCP tool surface over one indexed repo. Its
// query handlers read Graph/Store directly and concurrently with the
// Pipeline's single indexer worker (spec.md §5); only Pipeline's own
// methods mutate the graph or the store.
type Server struct {
	repo     string
	graph    *graph.Graph
	store    vectorstore.Store
	backend  embedbackend.Backend
	pipeline *pipeline.Pipeline

	mcp *mcp.Server
}

func New(repo string, g *graph.Graph, store vectorstore.Store, backend embedbackend.Backend, p *pipeline.Pipeline) *Server {
	s := &Server{
		repo:     repo,
		graph:    g,
		store:    store,
		backend:  backend,
		pipeline: p,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "codeloom",
		Version: "0.1.0",
	}, nil)
	s.registerTools()
	return s
}

// Run serves the tool surface over stdio until ctx is cancelled, the
// teacher's own transport choice for the same MCP SDK (server.go's
// `s.server.Run(ctx, &mcp.StdioTransport{})`).
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_function_calls",
		Description: "List the functions a given function calls, as graph CALLS edges.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"function_id": {Type: "string", Description: "Entity id of the calling function"},
			},
			Required: []string{"function_id"},
		},
	}, s.handleGetFunctionCalls)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_callers",
		Description: "List the functions that call a given function, as graph CALLS edges reversed.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"function_id": {Type: "string", Description: "Entity id of the called function"},
			},
			Required: []string{"function_id"},
		},
	}, s.handleGetCallers)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_call_chain",
		Description: "Walk CALLS edges from a function up to max_depth, in either direction, marking cycles without infinite recursion.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"function_id": {Type: "string", Description: "Entity id to start from"},
				"max_depth":   {Type: "integer", Description: "Depth cap; defaults to 5"},
				"direction":   {Type: "string", Description: "\"outgoing\" or \"incoming\"; defaults to outgoing"},
			},
			Required: []string{"function_id"},
		},
	}, s.handleGetCallChain)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_class_hierarchy",
		Description: "List a class's base classes, subclasses, or both, following INHERITS edges.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"class_id":  {Type: "string", Description: "Entity id of the class"},
				"direction": {Type: "string", Description: "\"parents\", \"children\", or \"both\"; defaults to both"},
			},
			Required: []string{"class_id"},
		},
	}, s.handleGetClassHierarchy)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_file_structure",
		Description: "List every entity a file defines, plus the files it imports and the files that import it.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_id": {Type: "string", Description: "Entity id of the File node, e.g. \"repo:a.py\""},
			},
			Required: []string{"file_id"},
		},
	}, s.handleGetFileStructure)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "find_symbol",
		Description: "Score every graph node's name against a query by exact match, suffix match, then fuzzy similarity, with a same-file boost.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name":         {Type: "string", Description: "Symbol name or fragment to search for"},
				"file_context": {Type: "string", Description: "Optional file_path to boost same-file matches"},
				"limit":        {Type: "integer", Description: "Maximum results; defaults to 20"},
			},
			Required: []string{"name"},
		},
	}, s.handleFindSymbol)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "find_paths",
		Description: "Enumerate simple directed paths between two graph nodes, up to max_len edges.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"src":     {Type: "string", Description: "Source entity id"},
				"dst":     {Type: "string", Description: "Destination entity id"},
				"max_len": {Type: "integer", Description: "Maximum path length in edges; defaults to 5"},
			},
			Required: []string{"src", "dst"},
		},
	}, s.handleFindPaths)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_connected_components",
		Description: "Group every graph node into weakly connected components.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleGetConnectedComponents)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "semantic_search",
		Description: "Embed a natural-language query and return the nearest entities by cosine similarity over the vector store.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query":            {Type: "string", Description: "Natural-language search text"},
				"limit":            {Type: "integer", Description: "Maximum results, capped at 50; defaults to 10"},
				"entity_type":      {Type: "string", Description: "Optional: restrict to \"function\", \"class\", or \"type\""},
				"file_path_prefix": {Type: "string", Description: "Optional: restrict results to file_path starting with this prefix"},
			},
			Required: []string{"query"},
		},
	}, s.handleSemanticSearch)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_index_status",
		Description: "Report indexing phase, entity counts by variant, and staleness, without blocking on the indexer worker.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleGetIndexStatus)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "reindex",
		Description: "Reindex the whole repo or one path; dry_run reports the SyncResult a real reindex would produce without applying it.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":    {Type: "string", Description: "Optional: limit to one repo-relative file path"},
				"full":    {Type: "boolean", Description: "If true, delete and rebuild every stored embedding first"},
				"dry_run": {Type: "boolean", Description: "If true, report the diff without mutating the graph or the store"},
			},
		},
	}, s.handleReindex)
}
