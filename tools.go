//go:build tools

package tools

// Tool dependencies are tracked here with blank imports where possible.
// mockery is used as an installed binary (not via go run), so no import
// is needed. Run: mockery (from the repo root) to regenerate mocks.
