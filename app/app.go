package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"expertapp.arpa/app/ai"
	"expertapp.arpa/app/config"
	"expertapp.arpa/app/generator"
	"expertapp.arpa/app/http"
	"expertapp.arpa/app/persona"
	"expertapp.arpa/logger"
)

type App struct {
	BuildOpts  config.BuildOpts
	logger     logger.Logger
	log        *zap.Logger
	config     config.Config
	personas   *persona.Registry
	ai         *ai.AI
	generator  *generator.Generator
	httpServer *http.Server
}

func NewApp(buildOpts config.BuildOpts) *App {
	return &App{
		BuildOpts: buildOpts,
	}
}

func (s *App) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	s.config, err = s.BuildOpts.MakeConfig(cmd)
	if err != nil {
		return ctx, fmt.Errorf("config setup: %w", err)
	}

	isProd := s.config.Environment == config.EnvironmentProduction
	s.logger, err = logger.NewLogger(logger.LoggerOpts{
		Level:        s.config.LogLevel,
		IsProduction: isProd,
		JSONConsole:  isProd,
	})
	if err != nil {
		return ctx, err
	}
	s.log = s.logger.Get()

	s.personas, err = persona.NewRegistry(s.config.Personas...)
	if err != nil {
		return ctx, fmt.Errorf("persona setup: %w", err)
	}
	s.ai = ai.NewAI(s.log, s.config.AI)
	s.generator = generator.New(s.log, s.ai, s.personas, s.config.Generator)
	s.httpServer = http.NewServer(s.log, s.config.Server, s.generator, s.personas)

	s.log.Debug("Running app with personas.", zap.Strings("personas", s.personas.Labels()))

	return ctx, nil
}

func (s *App) Run(runCtx context.Context) error {
	if err := s.ai.Start(runCtx); err != nil {
		return fmt.Errorf("start ai: %w", err)
	}
	return s.httpServer.Run(runCtx)
}

func (s *App) BeginShutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.BeginShutdown(ctx); err != nil {
		return fmt.Errorf("begin shutdown http server: %w", err)
	}
	return nil
}

// Shutdown resources in reverse order of the Setup/Run
func (s *App) Shutdown(ctx context.Context) error {
	var errs error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if s.ai != nil {
		if err := s.ai.Stop(ctx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("stop ai: %w", err))
		}
	}
	// Sync throws an error when logging to console (sync is for buffered file logging)
	// `sync /dev/stderr: inappropriate ioctl for device`
	// https://github.com/uber-go/zap/issues/880
	if s.log != nil {
		if err := s.log.Sync(); err != nil && !errors.Is(err, syscall.ENOTTY) && !errors.Is(err, syscall.EINVAL) {
			errs = errors.Join(errs, fmt.Errorf("sync logger: %w", err))
		}
	}
	return errs
}

func (s *App) ForceShutdown(ctx context.Context) error {
	return nil
}

func (s *App) Logger() *zap.Logger {
	if s.log == nil {
		return logger.NewNoopLogger().Get()
	}
	return s.log
}

func (s *App) Generator() *generator.Generator {
	return s.generator
}

func (s *App) Personas() *persona.Registry {
	return s.personas
}
