package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/text-region-mcp/internal/server"
	"github.com/ironsheep/text-region-mcp/internal/web"
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
			fmt.Printf("text-region-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("text-region-mcp - MCP server for heuristic text region detection")
			fmt.Println()
			fmt.Println("Usage: text-region-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --http ADDR      Serve the HTTP front-end on ADDR instead of MCP stdio")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  TEXTREGION_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("By default this server communicates via MCP protocol over")
			fmt.Println("stdin/stdout. Configure it in your MCP client, or pass --http")
			fmt.Println("to expose POST /detect over HTTP instead.")
			return
		}
	}

	httpAddr := flag.String("http", "", "serve HTTP on this address instead of MCP stdio")
	flag.Parse()

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("TEXTREGION_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Text Region MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if *httpAddr != "" {
		if err := web.New().ListenAndServe(*httpAddr); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
