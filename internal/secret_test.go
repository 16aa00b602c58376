package internal

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOp replaces the op CLI for the duration of the test
func fakeOp(t *testing.T, installed bool, command func(ctx context.Context) *exec.Cmd) {
	t.Helper()
	origCommand, origLookPath := CommandContext, LookPath
	t.Cleanup(func() {
		CommandContext, LookPath = origCommand, origLookPath
	})

	LookPath = func(string) (string, error) {
		if !installed {
			return "", exec.ErrNotFound
		}
		return "/usr/local/bin/op", nil
	}
	CommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return command(ctx)
	}
}

func TestIsSecretReference(t *testing.T) {
	assert.True(t, IsSecretReference("op://vault/item/field"))
	assert.False(t, IsSecretReference("sk-live-123"))
	assert.False(t, IsSecretReference(""))
}

func TestResolveCredentials(t *testing.T) {
	echo := func(out string) func(ctx context.Context) *exec.Cmd {
		return func(ctx context.Context) *exec.Cmd { return exec.CommandContext(ctx, "echo", out) }
	}
	fail := func(ctx context.Context) *exec.Cmd { return exec.CommandContext(ctx, "false") }

	tests := []struct {
		name      string
		installed bool
		command   func(ctx context.Context) *exec.Cmd
		swapKey   string
		vaultKey  string
		wantSwap  string
		wantVault string
		wantErr   string
	}{
		{
			name:      "reference is read",
			installed: true,
			command:   echo("resolved-key"),
			swapKey:   "op://vault/swap/key",
			vaultKey:  "plain-key",
			wantSwap:  "resolved-key",
			wantVault: "plain-key",
		},
		{
			name:      "plain and empty values pass through",
			installed: false,
			command:   fail,
			swapKey:   "",
			vaultKey:  "plain-key",
			wantSwap:  "",
			wantVault: "plain-key",
		},
		{
			name:      "op not installed",
			installed: false,
			command:   fail,
			vaultKey:  "op://vault/vault/key",
			wantErr:   "resolving vault api key: 1Password CLI (op) not found",
		},
		{
			name:      "op read fails",
			installed: true,
			command:   fail,
			swapKey:   "op://vault/swap/key",
			wantErr:   "resolving swap api key: op read failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeOp(t, tt.installed, tt.command)

			swapKey, vaultKey := tt.swapKey, tt.vaultKey
			err := ResolveCredentials(context.Background(), map[string]*string{
				"swap api key":  &swapKey,
				"vault api key": &vaultKey,
				"unset":         nil,
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSwap, swapKey)
			assert.Equal(t, tt.wantVault, vaultKey)
		})
	}
}
