package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ochairo/casebot/internal/config"
	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
)

const consoleChannel = "console"

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorUser    = lipgloss.Color("#06B6D4")

	headerStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	promptStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(colorPrimary)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

type simulateOptions struct {
	configuredModes bool
}

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Chat with the bot in the terminal",
		Long: "Runs the message, confirmation and dispatch flow in the terminal.\n" +
			"Keyword matching and mock dispatch are forced unless --configured-modes is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var overrides []configOverride
			if !opts.configuredModes {
				overrides = append(overrides, func(cfg *config.Config) {
					cfg.Match.Mode = config.MatchModeKeyword
					cfg.Dispatch.Mode = config.DispatchModeMock
				})
			}

			a, err := newApp(cmd.Context(), flags, overrides...)
			if err != nil {
				return err
			}
			defer a.close()

			return simulate(cmd.Context(), a.orchestrator, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.configuredModes, "configured-modes", false, "Use the configured match and dispatch modes")
	return cmd
}

// consoleReply renders orchestrator replies in the terminal and remembers the last confirmation
type consoleReply struct {
	out     io.Writer
	pending *orchestrators.Confirmation
}

func (r *consoleReply) SendText(_ context.Context, text string) error {
	_, err := fmt.Fprintln(r.out, botStyle.Render("[Bot] "+text))
	return err
}

func (r *consoleReply) SendConfirmation(_ context.Context, c orchestrators.Confirmation) error {
	r.pending = &c
	card := fmt.Sprintf("Title:       %s\nDescription: %s\nScript:      %s",
		c.Record.Title, c.Record.Description, c.Resolution)
	_, err := fmt.Fprintf(r.out, "%s\n%s\n", botStyle.Render("[Bot] Found test case!"), cardStyle.Render(card))
	return err
}

func simulate(ctx context.Context, orchestrator *orchestrators.RequestOrchestrator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	reply := &consoleReply{out: out}
	noAck := func() error { return nil }

	fmt.Fprintln(out, headerStyle.Render("=== casebot simulation ==="))
	fmt.Fprintln(out, hintStyle.Render("Type a request such as 'login' or 'checkout'. Type 'exit' to quit."))

	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		text, ok := readLine("\n" + promptStyle.Render("You:") + " ")
		if !ok {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply.pending = nil
		outcome, err := orchestrator.HandleMessage(ctx, orchestrators.IncomingMessage{Channel: consoleChannel, Text: text}, reply)
		if err != nil {
			return err
		}
		if outcome != orchestrators.OutcomeConfirmationSent || reply.pending == nil {
			continue
		}

		answer, ok := readLine(botStyle.Render("[Bot] Do you want to run this test? (y/n):") + " ")
		if !ok {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		action := orchestrators.ActionEvent{Channel: consoleChannel, ActionID: orchestrators.ActionCancel}
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
			action.ActionID = orchestrators.ActionRunTest
			action.Value = reply.pending.Resolution.Path
		}
		if err := orchestrator.HandleAction(ctx, action, noAck, reply); err != nil {
			return err
		}
	}
}
