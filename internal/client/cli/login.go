package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iudanet/gophboard/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "Account email")
	passwordFile := fs.String("password-file", "", "File containing the password")
	password := fs.String("password", "", "Password (not recommended)")
	sessionOnly := fs.Bool("session", false, "Keep the session for this process only")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	if *email == "" {
		var err error
		*email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	pass, err := c.getPassword(Passwords{FromFile: *passwordFile, FromArgs: *password})
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	result, err := c.authService.Login(ctx, *email, pass, !*sessionOnly)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	if result.User != nil {
		c.io.Printf("User: %s\n", result.User.Email)
	}
	if result.ExpiresAt > 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(result.ExpiresAt, 0).Format(time.RFC3339))
	}
	if result.Area == storage.AreaSession {
		c.io.Println("Session is kept in memory and ends with this process.")
	} else {
		c.io.Println("Session has been saved.")
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}
	c.io.Println("✓ Logged out. Local session, cache and throttle state cleared.")
	return nil
}
