package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"expertapp.arpa/app/ai"
	"expertapp.arpa/app/generator"
	"expertapp.arpa/app/http"
	"expertapp.arpa/app/persona"
)

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

func IsEnvironment(s string) bool {
	return environmentFromString(s) != ""
}

func environmentFromString(s string) Environment {
	switch strings.ToLower(s) {
	case EnvironmentDevelopment.String():
		return EnvironmentDevelopment
	case EnvironmentProduction.String():
		return EnvironmentProduction
	default:
		return ""
	}
}

// From LDFLAGS
type BuildOpts struct {
	BuildVersion     string
	BuildTime        string
	BuildEnvironment string
}

func (l BuildOpts) MakeConfig(cmd *cli.Command) (Config, error) {
	if l.BuildVersion == "" {
		l.BuildVersion = "dev"
	}
	if l.BuildTime == "" {
		l.BuildTime = "unknown"
	}
	env := cmd.String("env")
	if !cmd.IsSet("env") && l.BuildEnvironment != "" {
		env = l.BuildEnvironment
	}
	opts := configOpts{
		Version:       l.BuildVersion,
		BuildTime:     l.BuildTime,
		LogLevel:      cmd.String("log-level"),
		Environment:   env,
		ConfigFile:    cmd.String("config-file"),
		ServerURL:     cmd.String("server-url"),
		OpenAIAPIKey:  cmd.String("openai-api-key"),
		OpenAIModel:   cmd.String("openai-model"),
		OpenAIBaseURL: cmd.String("openai-base-url"),
	}

	return newConfig(opts)
}

type configOpts struct {
	Version       string
	BuildTime     string
	LogLevel      string
	Environment   string
	ConfigFile    string
	ServerURL     string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

type Config struct {
	Version     string
	BuildTime   string
	LogLevel    string
	Environment Environment
	ConfigFile  string
	Server      http.Config
	AI          ai.Config
	Generator   generator.Options
	Personas    []persona.Persona
}

func newConfig(opts configOpts) (Config, error) {
	personas := persona.Builtin()
	if opts.ConfigFile != "" {
		var fileConfig FileConfig
		if err := ReadConfig(opts.ConfigFile, &fileConfig); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if len(fileConfig.Personas) > 0 {
			personas = fileConfig.Personas
		}
	}
	if err := validatePersonas(personas); err != nil {
		return Config{}, err
	}

	model := Default(opts.OpenAIModel, generator.DefaultModel)
	genOpts := generator.DefaultOptions()
	genOpts.Model = model

	return Config{
		Version:     opts.Version,
		BuildTime:   opts.BuildTime,
		LogLevel:    Default(opts.LogLevel, "info"),
		Environment: Default(environmentFromString(opts.Environment), EnvironmentDevelopment),
		ConfigFile:  opts.ConfigFile,
		Server: http.Config{
			ServerURL: Default(opts.ServerURL, defaultServerURL),
			Version:   opts.Version,
		},
		AI: ai.Config{
			OpenAIAPIKey: strings.TrimSpace(opts.OpenAIAPIKey),
			Model:        model,
			BaseURL:      opts.OpenAIBaseURL,
		},
		Generator: genOpts,
		Personas:  personas,
	}, nil
}

func validatePersonas(personas []persona.Persona) error {
	if len(personas) == 0 {
		return errors.New("at least one persona is required")
	}
	_, err := persona.NewRegistry(personas...)
	if err != nil {
		return fmt.Errorf("invalid personas: %w", err)
	}
	return nil
}

func Default[T comparable](val T, defaultVal T) T {
	var zero T
	if val == zero {
		return defaultVal
	}
	return val
}
