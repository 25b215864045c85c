package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/gophboard/internal/client/hooks"
)

func (c *Cli) newHook(name string) (*hooks.Hook[json.RawMessage], error) {
	return hooks.NewFeature(hooks.Deps{
		Requester: c.requester,
		Cache:     c.cache,
		Notifier:  &notifier{io: c.io},
		Logger:    c.logger,
		Metrics:   c.metrics,
	}, name)
}

func (c *Cli) runFetch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: fetch FEATURE", ErrUsage)
	}

	h, err := c.newHook(args[0])
	if err != nil {
		return err
	}
	defer h.Unmount()

	h.Mount(ctx)
	return c.printData(h)
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: add FEATURE JSON", ErrUsage)
	}
	if !json.Valid([]byte(args[1])) {
		return fmt.Errorf("%w: item must be valid JSON", ErrUsage)
	}

	h, err := c.newHook(args[0])
	if err != nil {
		return err
	}
	defer h.Unmount()

	if apiErr := h.Add(ctx, json.RawMessage(args[1])); apiErr != nil {
		return fmt.Errorf("add failed (%d): %w", apiErr.Status, apiErr)
	}
	c.io.Println("✓ Added")
	return c.printData(h)
}

func (c *Cli) runRemove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: remove FEATURE ID", ErrUsage)
	}

	h, err := c.newHook(args[0])
	if err != nil {
		return err
	}
	defer h.Unmount()

	if apiErr := h.Remove(ctx, args[1]); apiErr != nil {
		return fmt.Errorf("remove failed (%d): %w", apiErr.Status, apiErr)
	}
	c.io.Printf("✓ Removed %s\n", args[1])
	return c.printData(h)
}

func (c *Cli) printData(h *hooks.Hook[json.RawMessage]) error {
	data, ok := h.Data()
	if !ok {
		if apiErr := h.Err(); apiErr != nil {
			return fmt.Errorf("%s failed (%d): %w", h.Spec().Feature, apiErr.Status, apiErr)
		}
		return fmt.Errorf("%s: no data received within %s", h.Spec().Feature, h.Spec().WaitTimeout)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		out.Reset()
		out.Write(data)
	}
	out.WriteByte('\n')
	_, err := c.io.Write(out.Bytes())
	return err
}

func (c *Cli) runCache(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] != "clear" {
		return fmt.Errorf("%w: cache clear", ErrUsage)
	}
	if err := c.cache.Clear(ctx); err != nil {
		return err
	}
	c.io.Println("✓ Cache cleared")
	return nil
}
