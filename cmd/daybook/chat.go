package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"daybook/internal/session"
	"daybook/internal/transport"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7a92"))
)

// runInteractiveChat drives the line-based conversation loop. Each turn gets
// its own context so Ctrl-C during a slow call cancels the turn, not the
// program.
func runInteractiveChat(ctx context.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println(promptStyle.Render("daybook " + a.cfg.Version))
	fmt.Println(mutedStyle.Render("Type an instruction, /reset to clear the conversation, /quit to exit."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			a.session.Reset()
			fmt.Println(mutedStyle.Render("Conversation cleared."))
			continue
		case "/limits":
			printLimits(a)
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		reply, err := a.session.HandleTurnStreaming(turnCtx, line, func(fragment string) {
			fmt.Print(fragment)
		})
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				fmt.Println()
				return nil
			}
			fmt.Println(errorStyle.Render(describeTransportError(err).Error()))
			continue
		}
		renderReply(reply)
	}
}

// renderReply prints a turn outcome. Streamed text has already been printed
// fragment by fragment; command results get their own styled line.
func renderReply(reply *session.Reply) {
	if reply.Result == nil {
		if reply.Text != "" {
			fmt.Println()
		}
		return
	}
	if reply.Result.Success {
		fmt.Println(successStyle.Render("✓ " + reply.Result.Message))
	} else {
		fmt.Println(errorStyle.Render("✗ " + reply.Result.Message))
	}
	for _, failure := range reply.Result.Failures {
		fmt.Println(mutedStyle.Render("  " + failure))
	}
}

// printLimits shows the last observed rate-limit window.
func printLimits(a *app) {
	rl := a.client.RateLimit()
	if rl.Limit == 0 && rl.ResetAt.IsZero() {
		fmt.Println(mutedStyle.Render("No rate-limit information observed yet."))
		return
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("%d/%d requests remaining, resets %s",
		rl.Remaining, rl.Limit, rl.ResetAt.Format(time.Kitchen))))
}

// describeTransportError rewrites transport errors into actionable messages.
func describeTransportError(err error) error {
	var rle *transport.RateLimitedError
	switch {
	case errors.Is(err, transport.ErrMissingAPIKey):
		return errors.New("no app secret configured; set DAYBOOK_APP_SECRET or api.app_secret")
	case errors.Is(err, transport.ErrUnauthorized):
		return errors.New("the app secret was rejected; check api.app_secret")
	case errors.As(err, &rle):
		if rle.RetryAfter > 0 {
			return fmt.Errorf("rate limited; retry in %s", rle.RetryAfter)
		}
		return errors.New("rate limited; retry shortly")
	case errors.Is(err, context.DeadlineExceeded):
		return errors.New("the request timed out")
	default:
		return err
	}
}

// joinArgs merges cobra args back into the original instruction.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
