package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/garage/internal/controller"
)

// command turns one parsed line into an intent. ok is false for an unknown
// command. A non-nil error from a form prompt is returned to the controller
// only when it is a cancellation; other errors are shown and the loop
// continues.
type command func(ctx context.Context, cmd string, args []string) (in controller.Intent, ok bool, err error)

// nextIntent reads lines until one maps to an intent. "help" prints usage
// and "exit" or "quit" yield controller.Quit.
func (c *Console) nextIntent(ctx context.Context, prompt, usage string, parse command) (controller.Intent, error) {
	for {
		c.Printf("%s> ", prompt)
		line, err := c.lines.ReadLine(ctx)
		if err != nil {
			return nil, inputError(err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			c.Println(usage)
			continue
		case "exit", "quit", "q":
			return controller.Quit{}, nil
		}

		in, ok, err := parse(ctx, cmd, args)
		switch {
		case err != nil && isCancel(ctx, err):
			return nil, err
		case err != nil:
			c.Println("error:", err)
		case !ok:
			c.Println("Unknown command:", cmd)
		default:
			return in, nil
		}
	}
}

func isCancel(ctx context.Context, err error) bool {
	return errors.Is(err, controller.ErrCancelled) || ctx.Err() != nil
}

// argOrAsk uses the joined args when present and prompts otherwise.
func (c *Console) argOrAsk(ctx context.Context, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return c.Ask(ctx, prompt)
}
