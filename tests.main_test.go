package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRootCommand ensures flags map onto the App options.
func TestNewRootCommand(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want Options
	}{
		{
			"interactive defaults",
			nil,
			Options{ConfigFile: "./config.yml", EnvFile: "./config.env"},
		},
		{
			"one-shot",
			[]string{"-q", "gatsby", "-w", "100", "-c", "/etc/booksearch.yml"},
			Options{ConfigFile: "/etc/booksearch.yml", EnvFile: "./config.env", Query: "gatsby", OneShot: true, Width: 100},
		},
		{
			"one-shot empty query lists everything",
			[]string{"--query=", "--env-file", "prod.env"},
			Options{ConfigFile: "./config.yml", EnvFile: "prod.env", OneShot: true},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Options
			cmd := NewRootCommand(func(o Options) error {
				got = o
				return nil
			})
			cmd.SetArgs(tc.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestNewRootCommand_Error ensures run failures are returned.
func TestNewRootCommand_Error(t *testing.T) {
	cmd := NewRootCommand(func(Options) error { return ErrFetchBooks })
	cmd.SetArgs([]string{"-q", "x"})
	assert.True(t, errors.Is(cmd.Execute(), ErrFetchBooks))

	cmd = NewRootCommand(func(Options) error { return nil })
	cmd.SetArgs([]string{"--unknown"})
	assert.Error(t, cmd.Execute())
}
