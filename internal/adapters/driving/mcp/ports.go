package mcp

import (
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ground assembles gated, citation-tagged context.
	Ground driving.GroundService

	// Retrieve exposes the raw fused ranking.
	Retrieve driving.RetrieveService

	// Lifecycle reports the served bundle.
	Lifecycle driving.LifecycleService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ground == nil {
		return ErrMissingGroundService
	}
	// Retrieve and Lifecycle are optional
	return nil
}
