package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethra/sentinel/internal/client/auth"
)

func (c *Cli) runPasswd(ctx context.Context) error {
	c.io.Println("=== Change Password ===")
	c.io.Println()

	current, err := c.io.ReadPassword("Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read current password: %w", err)
	}

	next, err := c.io.ReadPassword("New password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read new password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if next != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := c.sessions.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("not authenticated. Please run 'sentinel login' first")
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Password changed!")

	return nil
}
