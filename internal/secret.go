package internal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// secretPrefix marks a credential stored in 1Password
const secretPrefix = "op://"

// Test seams for the op CLI
var (
	CommandContext = exec.CommandContext
	LookPath       = exec.LookPath
)

// IsSecretReference reports whether value names a 1Password item field,
// such as op://vault/item/field
func IsSecretReference(value string) bool {
	return strings.HasPrefix(value, secretPrefix)
}

// readSecret reads ref with `op read`
func readSecret(ctx context.Context, ref string) (string, error) {
	if _, err := LookPath("op"); err != nil {
		return "", fmt.Errorf("1Password CLI (op) not found in PATH: %w", err)
	}

	output, err := CommandContext(ctx, "op", "read", ref).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("op read failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("op read failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ResolveCredentials replaces each secret reference in credentials with the
// value it names. Plain and empty values are left as they are. The first
// reference that cannot be read aborts, naming its credential.
func ResolveCredentials(ctx context.Context, credentials map[string]*string) error {
	for name, value := range credentials {
		if value == nil || !IsSecretReference(*value) {
			continue
		}
		resolved, err := readSecret(ctx, *value)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", name, err)
		}
		*value = resolved
	}
	return nil
}
