package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The test process has no TTY on stdout, so the explorer must refuse to
// start and point at the non-interactive command instead.
func TestTUIRefusesWithoutTerminal(t *testing.T) {
	setupCommandTest(t)

	_, err := runCommand(t, "tui")
	require.Error(t, err)

	var usageErr *UsageError
	require.True(t, errors.As(err, &usageErr))
	assert.Contains(t, usageErr.Reason, "interactive terminal")
	assert.Contains(t, usageErr.Reason, "cargofocus scenario")
}
