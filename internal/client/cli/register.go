package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remember := fs.Bool("remember", false, "Keep the session after the client exits")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse register flags: %w", err)
	}

	c.io.Println("=== Registration ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Registering user...")

	user, err := c.sessions.Register(ctx, name, email, password, *remember)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	if *remember {
		c.io.Println("Your session has been saved and will survive restarts.")
	} else {
		c.io.Println("Your session lives until this client exits.")
	}

	return nil
}
