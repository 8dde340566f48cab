// Package mcpserver exposes the content router's six operations as an
// MCP-style JSON-RPC 2.0 surface, served over HTTP.
package mcpserver

import "encoding/json"

const protocolVersion = "2024-11-05"

// ─── JSON-RPC 2.0 ───

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	errCodeParse          = -32700
	errCodeMethodNotFound = -32601
	errCodeInvalidParams  = -32602
	errCodeInternal       = -32603
)

// ─── MCP initialize ───

type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    any    `json:"capabilities"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version,omitempty"`
	} `json:"clientInfo"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type serverCapabilities struct {
	Tools *toolsCapability `json:"tools,omitempty"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ─── MCP tools ───

type toolsListResult struct {
	Tools []toolDef `json:"tools"`
}

type toolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type toolsCallResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func textResult(text string) toolsCallResult {
	return toolsCallResult{Content: []contentBlock{{Type: "text", Text: text}}}
}

func errorResult(text string) toolsCallResult {
	return toolsCallResult{Content: []contentBlock{{Type: "text", Text: text}}, IsError: true}
}

var toolDefs = []toolDef{
	{
		Name:        "gopher_browse",
		Description: "Navigate a Gopher menu. Returns structured items with type, display text, and navigable path.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"path": map[string]any{"type": "string", "description": "namespace/selector"}},
			"required":   []string{"path"},
		},
	},
	{
		Name:        "gopher_fetch",
		Description: "Retrieve a document's text content.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"path": map[string]any{"type": "string", "description": "namespace/selector"}},
			"required":   []string{"path"},
		},
	},
	{
		Name:        "gopher_search",
		Description: "Search a namespace, using native adapter search when available and falling back to a case-insensitive filter otherwise.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":  map[string]any{"type": "string", "description": "namespace/selector"},
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"path", "query"},
		},
	},
	{
		Name:        "gopher_publish",
		Description: "Create or update a document on a writable namespace.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":    map[string]any{"type": "string", "description": "namespace/selector"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"path", "content"},
		},
	},
	{
		Name:        "gopher_delete",
		Description: "Delete a document or, recursively, a menu subtree on a writable namespace.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"path": map[string]any{"type": "string", "description": "namespace/selector"}},
			"required":   []string{"path"},
		},
	},
	{
		Name:        "gopher_dump",
		Description: "Walk a source menu breadth-first and republish every document it finds under a destination namespace.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"source":      map[string]any{"type": "string"},
				"destination": map[string]any{"type": "string"},
				"max_depth":   map[string]any{"type": "integer", "description": "defaults to 3"},
			},
			"required": []string{"source", "destination"},
		},
	},
}
