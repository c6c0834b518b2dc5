//go:build tools

package tools

// Mocks in pkg/backend/mocks are generated by an installed mockery
// binary from .mockery.yaml, so no tool import is needed here.
