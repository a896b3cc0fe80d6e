package services

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// captureLog redirects the logger into a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetColor(false)
	logger.SetVerbose(true)
	logger.Reset()
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
		logger.Reset()
	})
	return &buf
}

func defaultRules(t *testing.T) *ruleset.RuleSet {
	t.Helper()
	rules, err := ruleset.Default()
	require.NoError(t, err)
	return rules
}
