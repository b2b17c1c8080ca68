package app

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"expertapp.arpa/app/config"
)

type cmdWithArgs func(ctx context.Context, cmd *cli.Command, s *App) error

// Wrap subcommands to inject the app dependency
func cmdWithApp(action cmdWithArgs, app *App) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return action(ctx, cmd, app)
	}
}

type setupWithArgs func(ctx context.Context, cmd *cli.Command) (context.Context, error)

func setup(setup setupWithArgs) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return setup(ctx, cmd)
	}
}

func NewCommandRoot(s *App) (*bool, *cli.Command) {
	opts := s.BuildOpts
	version := fmt.Sprintf("%s (%s)", opts.BuildVersion, opts.BuildTime)
	if opts.BuildTime == "" {
		version = opts.BuildVersion
	}
	start := new(bool)
	return start, &cli.Command{
		Name:    "expertapp",
		Usage:   "Ask a chat model for answers from the point of view of a chosen expert",
		Version: version,
		Before:  setup(s.Setup), // runs before any command to initialize the app
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return fmt.Errorf("unknown command %q", cmd.Args().First())
			}
			*start = true
			return nil
		},
		Commands: Commands(s),
		Flags:    config.Flags(),
	}
}

func Commands(s *App) []*cli.Command {
	return []*cli.Command{
		newAskCommand(s),
		newPersonasCommand(s),
	}
}
