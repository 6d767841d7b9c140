//go:build mage

// Package main provides build targets for the crops project using Mage.
//
// Usage:
//
//	mage build          Compile the crops binary to bin/
//	mage test:all       Run all tests
//	mage test:cover     Run all tests with a coverage profile
//	mage lint           Run go vet and golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install crops to GOPATH/bin
package main
