package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	altyaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"expertapp.arpa/app/generator"
)

const (
	defaultServerURL   = "http://localhost:8501"
	defaultSecretsFile = "./secrets.yaml"

	// APIKeyName is both the environment variable and the secrets file key.
	APIKeyName = "OPENAI_API_KEY"
)

func Flags() []cli.Flag {
	secretsFile := defaultSecretsFile
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				options := []string{"error", "warn", "info", "debug", "none"}
				if slices.Contains(options, strings.ToLower(v)) {
					return nil
				}
				return cli.Exit(fmt.Errorf("'log-level' must be %v. Received: %v", strings.Join(options, ", "), v), 2)
			},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "build environment description",
			Value:   EnvironmentDevelopment.String(),
			Sources: cli.EnvVars("ENVIRONMENT"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if IsEnvironment(v) {
					return nil
				}
				options := []string{EnvironmentDevelopment.String(), EnvironmentProduction.String()}
				return cli.Exit(fmt.Errorf("'env' must be %v. Received: %v", strings.Join(options, ", "), v), 2)
			},
		},
		&cli.StringFlag{
			Name:    "server-url",
			Usage:   "Address the web form is served on",
			Value:   defaultServerURL,
			Sources: cli.EnvVars("SERVER_URL"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if err := validateURLInput(v); err != nil {
					return cli.Exit(fmt.Errorf("invalid server URL: %v", err), 2)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    "config-file",
			Usage:   "Optional YAML or JSON file overriding the expert personas",
			Sources: cli.EnvVars("CONFIG_FILE"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if err := validateFileInput(v); err != nil {
					return cli.Exit(fmt.Errorf("invalid config file: %v", err), 2)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:        "secrets-file",
			Usage:       "YAML secrets file consulted for " + APIKeyName + " when the environment does not set it",
			Value:       defaultSecretsFile,
			Destination: &secretsFile,
			Sources:     cli.EnvVars("SECRETS_FILE"),
		},
		&cli.StringFlag{
			Name:  "openai-api-key",
			Usage: "OpenAI API key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar(APIKeyName),
				altyaml.YAML(APIKeyName, altsrc.NewStringPtrSourcer(&secretsFile)),
			),
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Usage:   "Chat completion model identifier",
			Value:   generator.DefaultModel,
			Sources: cli.EnvVars("OPENAI_MODEL"),
		},
		&cli.StringFlag{
			Name:    "openai-base-url",
			Usage:   "Override the OpenAI API base URL (OpenAI-compatible gateways)",
			Sources: cli.EnvVars("OPENAI_BASE_URL"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if v == "" {
					return nil
				}
				if _, err := url.ParseRequestURI(v); err != nil {
					return cli.Exit(fmt.Errorf("invalid OpenAI base URL: %v", err), 2)
				}
				return nil
			},
		},
	}
}

// Ensures the file input is valid.
func validateFileInput(file string) error {
	if file == "" {
		return errors.New("file is required")
	} else {
		_, err := os.Stat(file)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateURLInput(input string) error {
	if input == "" {
		return errors.New("URL is required")
	} else {
		u, err := url.ParseRequestURI(input)
		if err != nil {
			return fmt.Errorf("invalid url '%v': %v", input, err)
		}
		host, _, err := net.SplitHostPort(u.Host)
		if err != nil || host == "" {
			return fmt.Errorf("invalid url '%v': %v", input, err)
		}
		return nil
	}
}
