package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-tint-mcp/internal/config"
	"github.com/ironsheep/image-tint-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-tint-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-tint-mcp - MCP server for silhouette image tinting")
			fmt.Println()
			fmt.Println("Usage: image-tint-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v       Print version information")
			fmt.Println("  --help, -h          Print this help message")
			fmt.Println("  --write-config      Write the default config file and exit")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_TINT_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  IMAGE_TINT_CONFIG=<path>      Config file (default $XDG_CONFIG_HOME/image-tint-mcp/config.toml)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		case "--write-config":
			path := config.Path()
			if err := config.Write(path, config.Default()); err != nil {
				log.Fatalf("Config error: %v", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	conf, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if conf.Debug() {
		log.Printf("Image Tint MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: %s (schemes=%v, max_bytes=%d, http_timeout=%s, png=%s)",
			config.Path(), conf.AllowedSchemes, conf.MaxImageBytes, conf.HTTPTimeout(), conf.PNGCompression)
	}

	srv := server.New(conf.Loader(), conf.Encoder(), server.WithDebug(conf.Debug()))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
