package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"expertapp.arpa/app/generator"
)

type askCommandFlags struct {
	Persona string
	Text    string
	HasText bool
}

func newAskCommandFlags(cmd *cli.Command) *askCommandFlags {
	return &askCommandFlags{
		Persona: cmd.String("persona"),
		Text:    cmd.String("text"),
		HasText: cmd.IsSet("text"),
	}
}

func newAskCommand(s *App) *cli.Command {
	return &cli.Command{
		Name:   "ask",
		Usage:  "Generate one answer and print it",
		Action: cmdWithApp(ask, s),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "persona",
				Aliases: []string{"p"},
				Usage:   "Expert label. Unknown labels use the first expert",
			},
			&cli.StringFlag{
				Name:    "text",
				Aliases: []string{"t"},
				Usage:   "Question text. Read from stdin when omitted",
			},
		},
	}
}

func ask(ctx context.Context, cmd *cli.Command, s *App) error {
	f := newAskCommandFlags(cmd)
	text := f.Text
	if !f.HasText {
		b, err := io.ReadAll(reader(cmd))
		if err != nil {
			return fmt.Errorf("read question from stdin: %w", err)
		}
		text = string(b)
	}

	if err := s.ai.Start(ctx); err != nil {
		return fmt.Errorf("start ai: %w", err)
	}
	defer func() {
		if err := s.ai.Stop(ctx); err != nil {
			s.log.Warn("Failed to stop ai", zap.Error(err))
		}
	}()

	res := s.generator.Generate(ctx, text, f.Persona)
	s.log.Debug("Answer generated", zap.String("persona", f.Persona), zap.Stringer("kind", res.Kind))

	return printResult(writer(cmd), res)
}

// printResult styles the answer only when w is a terminal.
func printResult(w io.Writer, res generator.Result) error {
	text := res.String()
	if isTerminal(w) {
		switch res.Kind {
		case generator.KindOK:
			text = renderMarkdown(text)
		case generator.KindInvalid:
			text = color.New(color.FgYellow).Sprint(text)
		case generator.KindFailed:
			text = color.New(color.FgRed, color.Bold).Sprint(text)
		}
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// renderMarkdown falls back to the raw text when glamour cannot render it.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil || strings.TrimSpace(out) == "" {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func newPersonasCommand(s *App) *cli.Command {
	return &cli.Command{
		Name:   "personas",
		Usage:  "List the available experts",
		Action: cmdWithApp(listPersonas, s),
	}
}

func listPersonas(ctx context.Context, cmd *cli.Command, s *App) error {
	w := writer(cmd)
	def := s.personas.Default().Label
	for _, label := range s.personas.Labels() {
		if label == def {
			label += " (default)"
		}
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}
	return nil
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
