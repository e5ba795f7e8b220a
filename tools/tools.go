//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are run with `go run pkg@version` or installed via `go install`
// and are not tracked in go.mod.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from the internal/core interfaces
//   Run: go generate ./internal/mocks
//   Version: v0.6.0 (matches go.uber.org/mock in go.mod)
//
// Air - live reload for cmd/pict-api while working on handlers
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
