package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for Lexra resources.
const uriScheme = "lexra://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the served bundle.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "bundle",
		Name:        "bundle",
		Description: "Manifest of the currently served index bundle",
		MIMEType:    "application/json",
	}, s.handleBundleResource)
}

// handleBundleResource returns the served bundle's manifest.
func (s *Server) handleBundleResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Lifecycle == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	manifest, err := s.ports.Lifecycle.Manifest()
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling manifest: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
