package cmd

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Catalog loading and generation log at info level.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./cmd/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
