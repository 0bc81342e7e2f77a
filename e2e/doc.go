//go:build e2e

// Package e2e runs the wait conditions against headless Chrome.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// Each test starts the fixture server on a random port and launches its
// own browser through pkg/testutil, then triggers page updates by clicking
// fixture buttons and waits for them through the rod driver.
package e2e
