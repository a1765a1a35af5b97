// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Build targets for the secondbrain module.
//
// Usage:
//
//	mage build       Compile brain to bin/
//	mage install     Install brain to GOPATH/bin
//	mage clean       Remove build artifacts
//	mage lint        Run golangci-lint
//	mage vet         Run go vet
//	mage test:all    Run all tests
//	mage test:unit   Run tests in short mode
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Write a coverage profile to bin/coverage.out
//	mage stats       Print Go lines of code per package
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "brain"
	binaryDir  = "bin"
	cmdDir     = "./cmd/brain"
	versionVar = "github.com/mesh-intelligence/secondbrain/pkg/brain.Version"
)

// ldflags stamps the version from BRAIN_VERSION or the latest git tag.
func ldflags() string {
	version := os.Getenv("BRAIN_VERSION")
	if version == "" {
		if tag, err := sh.Output("git", "describe", "--tags", "--abbrev=0"); err == nil {
			version = strings.TrimPrefix(tag, "v")
		}
	}
	if version == "" {
		return ""
	}
	return fmt.Sprintf("-X %s=%s", versionVar, version)
}

// Build compiles the brain binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
