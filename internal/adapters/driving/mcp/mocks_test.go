package mcp

import (
	"context"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// mockGroundService is a mock implementation of driving.GroundService.
type mockGroundService struct {
	grounding *domain.Grounding
	err       error
}

func (m *mockGroundService) Ground(_ context.Context, _ string) (*domain.Grounding, error) {
	return m.grounding, m.err
}

// mockRetrieveService is a mock implementation of driving.RetrieveService.
type mockRetrieveService struct {
	set *domain.RetrievalSet
	err error
}

func (m *mockRetrieveService) Retrieve(
	_ context.Context,
	_ string,
	_ domain.RetrievalOptions,
) (*domain.RetrievalSet, error) {
	return m.set, m.err
}

// mockLifecycleService is a mock implementation of driving.LifecycleService.
type mockLifecycleService struct {
	manifest domain.BundleManifest
	err      error
}

func (m *mockLifecycleService) Reload(_ context.Context) error {
	return m.err
}

func (m *mockLifecycleService) Manifest() (domain.BundleManifest, error) {
	return m.manifest, m.err
}

func (m *mockLifecycleService) Watch(_ context.Context) error {
	return m.err
}
