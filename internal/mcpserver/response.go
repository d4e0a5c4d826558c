package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResponse marshals data as the tool's sole text content block,
// the teacher's uniform MCP response shape (internal/mcp/response.go).
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

// errorResponse reports a tool-level failure inside the result body
// per spec.md §7's surfacing policy ("tool responses include an error
// field"), with IsError set so the MCP client can tell it apart from
// a normal payload without inspecting the JSON.
func errorResponse(op string, err error) (*mcp.CallToolResult, error) {
	result, marshalErr := jsonResponse(map[string]interface{}{
		"error":     err.Error(),
		"operation": op,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	result.IsError = true
	return result, nil
}

func unmarshalArgs(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
