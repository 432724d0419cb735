// Package mcp provides an MCP (Model Context Protocol) server adapter for Lexra.
// It lets AI assistants ground their answers in the locally indexed corpus.
package mcp

import "errors"

// ErrMissingGroundService is returned when the ground service is not provided.
var ErrMissingGroundService = errors.New("mcp: ground service is required")
