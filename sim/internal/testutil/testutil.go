// Package testutil provides shared test infrastructure for fundsim.
// It consolidates path resolution and assertion helpers used across
// sim/ sub-package tests.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// RepoPath resolves a path relative to the repository root.
// The root is located relative to this source file: sim/internal/testutil/ → repo root.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", ".."}, elem...)
	return filepath.Join(parts...)
}

// ExampleCatalogPath returns the path of the bundled example catalog.
func ExampleCatalogPath(t *testing.T) string {
	t.Helper()
	return RepoPath(t, "examples", "catalog.yaml")
}

// MustDate parses a YYYY-MM-DD date in UTC or fails the test.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
