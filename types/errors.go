package types

import "errors"

// Sentinel errors forming the content engine's error taxonomy. Callers
// classify a failure with errors.Is against one of these; the MCP surface
// names the matched kind at the front of its tool error message.
var (
	ErrInvalidPath  = errors.New("gopherengine: invalid path")
	ErrNotFound     = errors.New("gopherengine: not found")
	ErrTypeMismatch = errors.New("gopherengine: type mismatch")
	ErrNotWritable  = errors.New("gopherengine: not writable")
	ErrNetwork      = errors.New("gopherengine: network error")
	ErrProtocol     = errors.New("gopherengine: protocol error")
	ErrParse        = errors.New("gopherengine: parse error")
	ErrIO           = errors.New("gopherengine: io error")
	ErrInternal     = errors.New("gopherengine: internal error")
)
