package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing taptick tools",
	Long: `Start a Model Context Protocol (MCP) server so agents can drive the device
without shell overhead. Tools: snapshot, locate, tap, read_setting,
write_setting, clock, resolve.

Transports:
  stdio             standard I/O (default, for MCP clients)
  streamable-http   HTTP transport for remote agents

Examples:
  taptick serve
  taptick serve --transport streamable-http --port 8080
  taptick serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "MCP transport (stdio or streamable-http)")
	serveCmd.Flags().Int("port", 8080, "Listen port for the streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "UI snapshot cache TTL in milliseconds, 0 disables caching")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	srv := newMCPServer(cfg, deviceFromFlags(cmd), clockFromFlags(cmd))
	return srv.serve(cfg)
}

// serveConfig reads the serve flags, rejecting unknown transports before any
// server state is built.
func serveConfig(cmd *cobra.Command) (MCPConfig, error) {
	transport, _ := cmd.Flags().GetString("transport")
	if transport != "stdio" && transport != "streamable-http" {
		return MCPConfig{}, fmt.Errorf("unknown transport %q (use stdio or streamable-http)", transport)
	}

	port, _ := cmd.Flags().GetInt("port")
	ttlMs, _ := cmd.Flags().GetInt("cache-ttl")

	return MCPConfig{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(ttlMs) * time.Millisecond,
	}, nil
}
