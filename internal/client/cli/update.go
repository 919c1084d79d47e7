package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethra/sentinel/internal/client/auth"
	"github.com/nethra/sentinel/pkg/api"
)

func (c *Cli) runUpdate(ctx context.Context) error {
	c.io.Println("=== Update Profile ===")
	c.io.Println("Leave a field empty to keep the current value.")
	c.io.Println()

	name, err := c.io.ReadInput("New name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("New email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	avatar, err := c.io.ReadInput("New avatar URL: ")
	if err != nil {
		return fmt.Errorf("failed to read avatar URL: %w", err)
	}

	// Пустой ввод — поле не трогаем
	var req api.UpdateProfileRequest
	if name != "" {
		req.Name = &name
	}
	if email != "" {
		req.Email = &email
	}
	if avatar != "" {
		req.AvatarURL = &avatar
	}

	if req.Name == nil && req.Email == nil && req.AvatarURL == nil {
		c.io.Println()
		c.io.Println("Nothing to update.")
		return nil
	}

	profile, err := c.sessions.UpdateProfile(ctx, req)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("not authenticated. Please run 'sentinel login' first")
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Profile updated!")
	c.io.Printf("Name: %s\n", profile.Name)
	c.io.Printf("Email: %s\n", profile.Email)

	return nil
}
