// sfx-mcp - MCP server for generating sound effects with the ElevenLabs API
// License: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ronnqvist/sfx-mcp/pkg/config"
	"github.com/ronnqvist/sfx-mcp/pkg/elevenlabs"
	"github.com/ronnqvist/sfx-mcp/pkg/logger"
	"github.com/ronnqvist/sfx-mcp/pkg/server"
	"github.com/ronnqvist/sfx-mcp/pkg/sfx"
)

var (
	version   = "dev"
	gitCommit string
)

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func printVersion() {
	fmt.Printf("sfx-mcp %s (%s)\n", formatVersion(), runtime.Version())
}

func printHelp() {
	fmt.Println("sfx-mcp - MCP server exposing a generate_sfx tool backed by ElevenLabs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sfx-mcp [serve]    Run the MCP server on stdio (default)")
	fmt.Println("  sfx-mcp version    Print version information")
	fmt.Println("  sfx-mcp help       Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  ELEVENLABS_API_KEY   Provider API key (required)")
	fmt.Println("  SFX_MCP_OUTPUT_DIR   Default directory for generated files")
	fmt.Println("  SFX_MCP_CONFIG       Path to config.json")
	fmt.Println("  SFX_MCP_HOME         Server home directory (default ~/.sfx-mcp)")
}

func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		serve()
	case "version", "--version", "-v":
		printVersion()
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printHelp()
		os.Exit(1)
	}
}

func serve() {
	paths := config.ResolveRuntimePaths()

	// .env from the server home first, then the working directory. Both
	// are optional.
	_ = godotenv.Load(paths.EnvPath)
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(paths.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", paths.ConfigPath, err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.File != "" {
		if err := logger.EnableFileLogging(config.ExpandHome(cfg.Log.File)); err != nil {
			logger.WarnCF("main", "File logging unavailable", map[string]any{
				"error": err.Error(),
			})
		}
	}

	if !cfg.HasAPIKey() {
		logger.FatalC("main", "ELEVENLABS_API_KEY is not configured, sfx-mcp cannot start")
	}

	outputDir := cfg.Output.Dir
	if outputDir == "" {
		outputDir = paths.OutputDir
	}
	outputDir = config.ExpandHome(outputDir)

	client := elevenlabs.NewClient(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.APIBase)
	svc := sfx.NewService(sfx.NewResolver(outputDir), generatorFunc(client))
	srv := server.New(svc, formatVersion())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoCF("main", "Starting sfx-mcp", map[string]any{
		"version":    formatVersion(),
		"output_dir": outputDir,
	})

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.FatalCF("main", "Server exited with error", map[string]any{
			"error": err.Error(),
		})
	}
}

// generatorFunc adapts the ElevenLabs client to the service's Generator
// seam.
func generatorFunc(client *elevenlabs.Client) sfx.Generator {
	return providerGenerator{client: client}
}

type providerGenerator struct {
	client *elevenlabs.Client
}

func (g providerGenerator) Generate(ctx context.Context, params sfx.GenerateParams) ([]byte, error) {
	return g.client.GenerateSoundEffect(ctx, elevenlabs.SoundEffectRequest{
		Text:            params.Text,
		DurationSeconds: params.DurationSeconds,
		PromptInfluence: params.PromptInfluence,
	})
}
