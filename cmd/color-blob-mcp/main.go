package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/color-blob-mcp/internal/config"
	"github.com/ironsheep/color-blob-mcp/internal/logging"
	"github.com/ironsheep/color-blob-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv(config.EnvPrefix + "_CONFIG")

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("color-blob-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", args[i])
			os.Exit(2)
		}
	}

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "color-blob-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	logger.Info("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.String("config", configPath))

	srv, err := server.New(cfg, logger, Version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	logger.Info("stopped")
	return nil
}

func printHelp() {
	fmt.Println("color-blob-mcp - MCP server for color blob detection")
	fmt.Println()
	fmt.Println("Usage: color-blob-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE  Read settings from a YAML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BLOB_MCP_CONFIG=FILE                Same as --config")
	fmt.Println("  BLOB_MCP_LOG_LEVEL=debug            Enable debug logging")
	fmt.Println("  BLOB_MCP_LOG_MODE=production        JSON logs instead of console")
	fmt.Println("  BLOB_MCP_DETECTOR_HUE_SPREAD=25     Default hue half-width")
	fmt.Println("  BLOB_MCP_DETECTOR_KERNEL_SIZE=3     Mask cleanup kernel")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
