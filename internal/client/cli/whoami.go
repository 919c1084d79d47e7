package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethra/sentinel/internal/client/auth"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	profile, err := c.sessions.Profile(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("not authenticated. Please run 'sentinel login' first")
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	c.io.Println("=== Profile ===")
	c.io.Printf("ID: %s\n", profile.ID)
	c.io.Printf("Name: %s\n", profile.Name)
	c.io.Printf("Email: %s\n", profile.Email)
	if profile.AvatarURL != "" {
		c.io.Printf("Avatar: %s\n", profile.AvatarURL)
	}

	return nil
}
