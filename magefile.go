//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "gocd-tui"

// Default target - build the binary
var Default = Build

// Build builds the gocd-tui binary into bin/
func Build() error {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join("bin", binary)
	ldflags := fmt.Sprintf("-s -w -X main.version=%s", version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/gocd-tui")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}

// QA runs formatting, vet and tests
func QA() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Test)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Format checks code formatting
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}
