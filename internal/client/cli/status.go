package cli

import "context"

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	if !c.sessions.IsAuthenticated() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'sentinel login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")

	// Показываем кешированную сводку, сервер не опрашивается
	if user, ok := c.sessions.CurrentUser(); ok {
		c.io.Printf("Name: %s\n", user.Name)
		c.io.Printf("Email: %s\n", user.Email)
	}

	return nil
}
