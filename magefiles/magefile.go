//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the notebook project using Mage.
//
// Usage:
//
//	mage build       Compile the notebook binary to bin/
//	mage test:all    Run all tests
//	mage test:short  Run tests with -short
//	mage test:cover  Run tests with a coverage profile
//	mage lint        Run golangci-lint
//	mage vet         Run go vet
//	mage clean       Remove build artifacts
//	mage install     Install notebook to GOPATH/bin
//	mage stats       Print Go line counts per package
package main
