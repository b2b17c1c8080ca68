package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"expertapp.arpa/app/config"
	"expertapp.arpa/app/persona"
)

var testBuildOpts = config.BuildOpts{
	BuildVersion:     "test-version",
	BuildTime:        "test-time",
	BuildEnvironment: "development",
}

// clearEnv keeps the host environment and any local secrets file out of the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "ENVIRONMENT", "SERVER_URL", "CONFIG_FILE",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "secrets.yaml"))
}

// newTestRoot returns a root command that cannot exit the test binary.
func newTestRoot(t *testing.T) (*App, *bool, *cli.Command) {
	t.Helper()
	clearEnv(t)
	app := NewApp(testBuildOpts)
	start, cmd := NewCommandRoot(app)
	cmd.ExitErrHandler = func(ctx context.Context, cmd *cli.Command, err error) {}
	return app, start, cmd
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewApp(t *testing.T) {
	app := NewApp(testBuildOpts)

	if app == nil {
		t.Fatal("NewApp() returned nil")
	}

	if app.BuildOpts != testBuildOpts {
		t.Errorf("NewApp() BuildOpts = %v, want %v", app.BuildOpts, testBuildOpts)
	}
}

func TestApp_Setup(t *testing.T) {
	app, start, cmd := newTestRoot(t)

	err := cmd.Run(context.Background(), []string{"expertapp", "--log-level", "none"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !*start {
		t.Error("root action should set the start flag")
	}
	if app.config.Version != "test-version" {
		t.Errorf("Setup() config.Version = %v, want %v", app.config.Version, "test-version")
	}
	if app.log == nil {
		t.Error("Setup() should initialize the logger")
	}
	if app.Generator() == nil {
		t.Error("Setup() should initialize the generator")
	}
	if app.httpServer == nil {
		t.Error("Setup() should initialize the http server")
	}

	labels := app.Personas().Labels()
	want := []string{persona.LabelHealthCoach, persona.LabelBusinessStrategist, persona.LabelEnglishLearningCoach}
	if len(labels) != len(want) {
		t.Fatalf("Setup() personas = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Setup() persona[%d] = %v, want %v", i, labels[i], want[i])
		}
	}
}

func TestApp_Setup_MissingAPIKey(t *testing.T) {
	app, start, cmd := newTestRoot(t)

	err := cmd.Run(context.Background(), []string{"expertapp", "--log-level", "none"})
	if err != nil {
		t.Fatalf("a missing API key must not fail setup, got %v", err)
	}
	if !*start {
		t.Error("start flag should be set without an API key")
	}
	if app.config.AI.OpenAIAPIKey != "" {
		t.Errorf("OpenAIAPIKey = %q, want empty", app.config.AI.OpenAIAPIKey)
	}
}

func TestApp_Setup_InvalidPersonaFile(t *testing.T) {
	path := writeFile(t, "personas.yaml", `
personas:
  - label: A
    instruction: sysA
  - label: A
    instruction: sysB
`)
	_, start, cmd := newTestRoot(t)

	err := cmd.Run(context.Background(), []string{"expertapp", "--log-level", "none", "--config-file", path})
	if err == nil {
		t.Fatal("Setup() should fail with duplicate persona labels")
	}
	if *start {
		t.Error("start flag should not be set when setup fails")
	}
}

func TestApp_Setup_PersonaFile(t *testing.T) {
	path := writeFile(t, "personas.yaml", `
personas:
  - label: Chef
    instruction: You are a chef.
  - label: Gardener
    instruction: You are a gardener.
`)
	app, _, cmd := newTestRoot(t)

	err := cmd.Run(context.Background(), []string{"expertapp", "--log-level", "none", "--config-file", path})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := app.Personas().Default().Label; got != "Chef" {
		t.Errorf("Default() = %v, want Chef", got)
	}
	if got := app.Personas().Resolve("Unknown"); got != "You are a chef." {
		t.Errorf("Resolve(Unknown) = %q, want the first persona instruction", got)
	}
}

func TestApp_ShutdownBeforeSetup(t *testing.T) {
	app := NewApp(testBuildOpts)
	ctx := context.Background()

	if err := app.BeginShutdown(ctx); err != nil {
		t.Errorf("BeginShutdown() error = %v", err)
	}
	if err := app.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := app.ForceShutdown(ctx); err != nil {
		t.Errorf("ForceShutdown() error = %v", err)
	}
}

func TestApp_Logger(t *testing.T) {
	app := NewApp(testBuildOpts)
	if app.Logger() == nil {
		t.Error("Logger() should not be nil before Setup()")
	}

	app, _, cmd := newTestRoot(t)
	if err := cmd.Run(context.Background(), []string{"expertapp", "--log-level", "none"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if app.Logger() != app.log {
		t.Error("Logger() should return the same logger instance as app.log")
	}
}

func TestApp_RunAndShutdown(t *testing.T) {
	app, start, cmd := newTestRoot(t)
	err := cmd.Run(context.Background(), []string{
		"expertapp",
		"--log-level", "none",
		"--server-url", "http://127.0.0.1:0",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !*start {
		t.Fatal("start flag should be set")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svcErr := make(chan error, 1)
	go func() {
		svcErr <- app.Run(runCtx)
	}()

	time.Sleep(100 * time.Millisecond)

	ctx := context.Background()
	if err := app.BeginShutdown(ctx); err != nil {
		t.Errorf("BeginShutdown() error = %v", err)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 2*time.Second)
	defer shutdownCancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-svcErr:
		if err != nil {
			t.Errorf("Run() error = %v, want nil after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Shutdown()")
	}
}
