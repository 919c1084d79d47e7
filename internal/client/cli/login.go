package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/nethra/sentinel/internal/client/auth"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remember := fs.Bool("remember", false, "Keep the session after the client exits")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse login flags: %w", err)
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	user, err := c.sessions.Login(ctx, email, password, *remember)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	if *remember {
		c.io.Println("Your session has been saved and will survive restarts.")
	} else {
		c.io.Println("Your session lives until this client exits.")
	}

	return nil
}
