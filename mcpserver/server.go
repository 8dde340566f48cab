package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackfish212/gopherengine/router"
	"github.com/jackfish212/gopherengine/types"
)

// Server dispatches JSON-RPC requests against a Router. It holds no
// per-connection state: every call carries its own path and arguments.
type Server struct {
	router  *router.Router
	name    string
	version string
}

// New creates an MCP server bound to r.
func New(r *router.Router, name, version string) *Server {
	return &Server{router: r, name: name, version: version}
}

// Handle processes a single JSON-RPC request and returns the response to
// write back, or nil for requests that expect no response (notifications).
func (s *Server) Handle(ctx context.Context, raw []byte) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return &jsonRPCResponse{JSONRPC: "2.0", Error: &jsonRPCError{Code: errCodeParse, Message: "Parse error"}}
	}
	resp := s.dispatch(ctx, &req)
	if len(req.ID) == 0 {
		return nil
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *jsonRPCRequest) *jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	default:
		slog.Debug("unknown method", "method", req.Method)
		return &jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: errCodeMethodNotFound, Message: "Method not found: " + req.Method},
		}
	}
}

func (s *Server) handleInitialize(req *jsonRPCRequest) *jsonRPCResponse {
	var params initializeParams
	if req.Params != nil {
		json.Unmarshal(req.Params, &params)
	}
	slog.Info("client connected", "client", params.ClientInfo.Name, "protocolVersion", params.ProtocolVersion)

	return &jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    serverCapabilities{Tools: &toolsCapability{}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		},
	}
}

func (s *Server) handleToolsList(req *jsonRPCRequest) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: toolsListResult{Tools: toolDefs}}
}

func (s *Server) handleToolsCall(ctx context.Context, req *jsonRPCRequest) *jsonRPCResponse {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &jsonRPCError{Code: errCodeInvalidParams, Message: "Invalid params: " + err.Error()}}
	}

	var result toolsCallResult
	switch params.Name {
	case "gopher_browse":
		result = s.callBrowse(ctx, params.Arguments)
	case "gopher_fetch":
		result = s.callFetch(ctx, params.Arguments)
	case "gopher_search":
		result = s.callSearch(ctx, params.Arguments)
	case "gopher_publish":
		result = s.callPublish(ctx, params.Arguments)
	case "gopher_delete":
		result = s.callDelete(ctx, params.Arguments)
	case "gopher_dump":
		result = s.callDump(ctx, params.Arguments)
	default:
		return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &jsonRPCError{Code: errCodeInvalidParams, Message: "Unknown tool: " + params.Name}}
	}

	return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// renderedItem is the JSON-RPC wire shape for a types.MenuItem: it adds
// the caller-facing path and MIME hint that types.MenuItem itself only
// exposes via Path()/MIME(), per the path/mime derivation every browse
// and search result must carry.
type renderedItem struct {
	Type     string `json:"type"`
	Display  string `json:"display"`
	Selector string `json:"selector"`
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	Path     string `json:"path"`
	MIME     string `json:"mime"`
}

func renderItems(items []types.MenuItem) []renderedItem {
	rendered := make([]renderedItem, len(items))
	for i, item := range items {
		rendered[i] = renderedItem{
			Type:     item.Type.Name(),
			Display:  item.Display,
			Selector: item.Selector,
			Host:     item.Host,
			Port:     item.Port,
			Path:     item.Path(),
			MIME:     item.Type.MIME(),
		}
	}
	return rendered
}

func (s *Server) callBrowse(ctx context.Context, args map[string]any) toolsCallResult {
	items, err := s.router.Browse(ctx, argString(args, "path"))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{"items": renderItems(items), "count": len(items)})
}

func (s *Server) callFetch(ctx context.Context, args map[string]any) toolsCallResult {
	res, err := s.router.Fetch(ctx, argString(args, "path"))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{"path": res.Path, "content": res.Content, "mime": res.MIME})
}

func (s *Server) callSearch(ctx context.Context, args map[string]any) toolsCallResult {
	items, err := s.router.Search(ctx, argString(args, "path"), argString(args, "query"))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{"items": renderItems(items), "count": len(items)})
}

func (s *Server) callPublish(ctx context.Context, args map[string]any) toolsCallResult {
	res, err := s.router.Publish(ctx, argString(args, "path"), argString(args, "content"))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{"ok": true, "path": res.Path, "action": res.Action})
}

func (s *Server) callDelete(ctx context.Context, args map[string]any) toolsCallResult {
	res, err := s.router.Delete(ctx, argString(args, "path"))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{"ok": true, "path": res.Path, "action": res.Action})
}

func (s *Server) callDump(ctx context.Context, args map[string]any) toolsCallResult {
	res, err := s.router.Dump(ctx, argString(args, "source"), argString(args, "destination"), argInt(args, "max_depth", 0))
	if err != nil {
		return toolErrorResult(err)
	}
	return jsonResult(map[string]any{
		"ok":          true,
		"job_id":      res.JobID,
		"source":      res.Source,
		"destination": res.Destination,
		"published":   res.Published,
		"skipped":     res.Skipped,
	})
}

func jsonResult(v any) toolsCallResult {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("error: %v", err))
	}
	return textResult(string(body))
}

func toolErrorResult(err error) toolsCallResult {
	return errorResult("error: " + errorTaxonomyMessage(err))
}

// errorTaxonomyMessage renders err with its content-engine error kind so
// MCP clients can distinguish NotFound from NotWritable and the like
// without parsing free text.
func errorTaxonomyMessage(err error) string {
	for _, kind := range []struct {
		err  error
		name string
	}{
		{types.ErrInvalidPath, "InvalidPath"},
		{types.ErrNotFound, "NotFound"},
		{types.ErrTypeMismatch, "TypeMismatch"},
		{types.ErrNotWritable, "NotWritable"},
		{types.ErrNetwork, "Network"},
		{types.ErrProtocol, "ProtocolError"},
		{types.ErrParse, "ParseError"},
		{types.ErrIO, "IO"},
		{types.ErrInternal, "Internal"},
	} {
		if errors.Is(err, kind.err) {
			return kind.name + ": " + err.Error()
		}
	}
	return err.Error()
}
