package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackfish212/gopherengine/router"
	"github.com/jackfish212/gopherengine/store"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	s := store.New()
	s.SeedLocal()
	r := router.New(s)
	return New(r, "gopherengine", "test")
}

func roundTrip(t *testing.T, srv *Server, method string, id int, params any) jsonRPCResponse {
	t.Helper()

	var paramsJSON json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal params: %v", err)
		}
		paramsJSON = b
	}
	idJSON, _ := json.Marshal(id)

	resp := srv.Handle(context.Background(), mustMarshal(t, jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      idJSON,
		Method:  method,
		Params:  paramsJSON,
	}))
	if resp == nil {
		t.Fatalf("method %q returned no response", method)
	}
	return *resp
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestInitialize(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "initialize", 1, map[string]any{"protocolVersion": protocolVersion})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(initializeResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.ServerInfo.Name != "gopherengine" {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
}

func TestToolsListHasSixTools(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "tools/list", 2, nil)
	result, ok := resp.Result.(toolsListResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if len(result.Tools) != 6 {
		t.Errorf("got %d tools, want 6: %+v", len(result.Tools), result.Tools)
	}
}

func TestToolsCallBrowseLocal(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "tools/call", 3, map[string]any{
		"name":      "gopher_browse",
		"arguments": map[string]any{"path": "local/"},
	})
	result, ok := resp.Result.(toolsCallResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}
}

func TestToolsCallBrowseRendersPathAndMIME(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "tools/call", 10, map[string]any{
		"name":      "gopher_browse",
		"arguments": map[string]any{"path": "local/"},
	})
	result, ok := resp.Result.(toolsCallResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.IsError || len(result.Content) == 0 {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	var decoded struct {
		Items []struct {
			Type     string `json:"type"`
			Selector string `json:"selector"`
			Host     string `json:"host"`
			Path     string `json:"path"`
			MIME     string `json:"mime"`
		} `json:"items"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &decoded); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	if decoded.Count == 0 || len(decoded.Items) != decoded.Count {
		t.Fatalf("decoded = %+v", decoded)
	}
	for _, item := range decoded.Items {
		if item.Type == "" {
			t.Errorf("item %+v has no wire-name type", item)
		}
		if item.Type != "Info" {
			if item.Path == "" {
				t.Errorf("item %+v should have a non-empty path", item)
			}
			if item.Selector != "" && item.Path != item.Host+"/"+item.Selector[1:] {
				// path strips the selector's leading slash before joining host
				t.Errorf("path %q does not look derived from host %q and selector %q", item.Path, item.Host, item.Selector)
			}
		}
		if item.MIME == "" {
			t.Errorf("item %+v has no mime hint", item)
		}
	}
}

func TestToolsCallFetchNotFound(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "tools/call", 4, map[string]any{
		"name":      "gopher_fetch",
		"arguments": map[string]any{"path": "local/does-not-exist"},
	})
	result, ok := resp.Result.(toolsCallResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if !result.IsError {
		t.Error("expected isError=true for a missing selector")
	}
}

func TestNotificationsInitializedReturnsNoResponse(t *testing.T) {
	srv := setupTestServer(t)
	resp := srv.Handle(context.Background(), mustMarshal(t, jsonRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"}))
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := setupTestServer(t)
	resp := roundTrip(t, srv, "frobnicate", 5, nil)
	if resp.Error == nil || resp.Error.Code != errCodeMethodNotFound {
		t.Errorf("resp.Error = %+v, want code %d", resp.Error, errCodeMethodNotFound)
	}
}
