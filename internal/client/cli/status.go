package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iudanet/gophboard/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	check := fs.Bool("check", false, "Verify the session with the server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	bundle := c.authService.Status(ctx)
	if !bundle.HasToken() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'gophboard login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Stored in: %s\n", bundle.Source)

	now := time.Now()
	if bundle.ExpiresAt > 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(bundle.ExpiresAt, 0).Format(time.RFC3339))
		remaining := time.Duration(bundle.SecondsRemaining(now)) * time.Second
		switch {
		case remaining <= 0:
			c.io.Println("⚠️  Token has expired; it will be refreshed on the next request.")
		case bundle.NeedsRefresh(now):
			c.io.Printf("Time remaining: %s (refresh due)\n", remaining)
		default:
			c.io.Printf("Time remaining: %s\n", remaining)
		}
	} else {
		c.io.Println("Token expires: unknown")
	}

	if !*check {
		return nil
	}

	c.io.Println()
	user, err := c.authService.CheckSession(ctx)
	switch {
	case err == nil:
		c.io.Printf("✓ Server accepted the session (user %s)\n", user.Email)
		return nil
	case errors.Is(err, auth.ErrSessionCheckSuppressed):
		c.io.Println("⚠️  Session check skipped after repeated failures, try again later.")
		return nil
	default:
		return fmt.Errorf("session check failed: %w", err)
	}
}
