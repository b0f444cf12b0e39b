package mocks

import (
	"github.com/stretchr/testify/mock"

	"asset-bundler/core/catalog"
)

// Catalog is a mock implementation of the catalog lookups consumed by the
// graph walker (graph.Oracle) and the hint codec (hints.Resolver).
type Catalog struct {
	mock.Mock
}

func (m *Catalog) IdentityByPath(assetPath string) catalog.Identity {
	args := m.Called(assetPath)
	return args.Get(0).(catalog.Identity)
}

func (m *Catalog) PathByIdentity(id catalog.Identity) string {
	args := m.Called(id)
	return args.String(0)
}

func (m *Catalog) DirectDependencies(id catalog.Identity) ([]catalog.Identity, error) {
	args := m.Called(id)
	if deps, ok := args.Get(0).([]catalog.Identity); ok {
		return deps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) MatchesWildcard(id catalog.Identity, pattern string) bool {
	args := m.Called(id, pattern)
	return args.Bool(0)
}
