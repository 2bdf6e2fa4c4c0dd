package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/cli"
)

func TestMainComponents(t *testing.T) {
	t.Run("version defaults to dev", func(t *testing.T) {
		require.NotEmpty(t, version)
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version)
		require.NotNil(t, root)
		assert.Equal(t, "cargofocus", root.Use)
		assert.NotEmpty(t, root.Commands())
	})
}

func TestUsageErrorDetection(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantIsUsage bool
	}{
		{
			name:        "bare usage error",
			err:         &cli.UsageError{Reason: "invalid --from"},
			wantIsUsage: true,
		},
		{
			name:        "wrapped usage error",
			err:         errors.Join(errors.New("outer"), &cli.UsageError{Reason: "bad flag"}),
			wantIsUsage: true,
		},
		{
			name:        "runtime error falls through",
			err:         errors.New("provider unreachable"),
			wantIsUsage: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var usageErr *cli.UsageError
			assert.Equal(t, tt.wantIsUsage, errors.As(tt.err, &usageErr))
		})
	}
}
