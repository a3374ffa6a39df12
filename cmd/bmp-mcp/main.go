package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ironsheep/bmp-tools-mcp/internal/config"
	"github.com/ironsheep/bmp-tools-mcp/internal/logging"
	"github.com/ironsheep/bmp-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, opts, err := config.Parse("bmp-mcp", os.Args[1:], os.Getenv)
	if errors.Is(err, pflag.ErrHelp) {
		opts.Help = true
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "bmp-mcp: %v\n", err)
		os.Exit(2)
	}

	switch {
	case opts.Version:
		fmt.Printf("bmp-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case opts.Help:
		fmt.Println("bmp-mcp - MCP server for BMP image processing")
		fmt.Println()
		fmt.Println("Usage: bmp-mcp [options]")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Print(opts.Usage)
		fmt.Println()
		fmt.Println("Environment variables:")
		fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
		fmt.Printf("  %s=4          Filter engine goroutines\n", config.EnvWorkers)
		fmt.Println()
		fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
		fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
		return
	}

	// stdout is for the MCP protocol; all logging goes to stderr.
	logging.SetLevel(cfg.LogLevel)
	logging.Debug("BMP MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	if err := server.New(cfg).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("server error: %v", err)
		stop()
		os.Exit(1)
	}
}
