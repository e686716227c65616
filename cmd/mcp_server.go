package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"taptick/internal/device"
	"taptick/internal/refclock"
	"taptick/internal/version"
)

// mcpServer wraps the MCP server with the device handle, reference clock and
// snapshot cache. deviceMu serializes adb access: uiautomator dumps and input
// taps interleaved from concurrent tool calls would corrupt each other.
type mcpServer struct {
	dev      *device.Device
	clock    *refclock.NTPClock
	cache    *snapshotCache
	deviceMu sync.Mutex
	mcp      *mcpserver.MCPServer
}

// MCPConfig carries the serve command's transport and cache settings.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// newMCPServer creates and configures an MCP server with all taptick tools.
func newMCPServer(cfg MCPConfig, dev *device.Device, clock *refclock.NTPClock) *mcpServer {
	s := &mcpServer{
		dev:   dev,
		clock: clock,
		cache: newSnapshotCache(cfg.CacheTTL),
	}

	s.mcp = mcpserver.NewMCPServer("taptick", version.Version)
	s.registerTools()
	return s
}

// serve runs the MCP server on the configured transport, blocking until the
// client disconnects or the listener fails.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// snapshot
	s.mcp.AddTool(
		mcp.NewTool("snapshot",
			mcp.WithDescription("Dump the current uiautomator hierarchy and return its nodes with bounds and tap centers"),
			mcp.WithBoolean("all", mcp.Description("Include nodes without text, resource-id or clickable=true")),
			mcp.WithString("remote-path", mcp.Description("Device path for the dump (default /sdcard/ui_dump.xml)")),
		),
		s.handleSnapshot,
	)

	// locate
	s.mcp.AddTool(
		mcp.NewTool("locate",
			mcp.WithDescription("Find an element by exact text (resource-id fallback) and return its bounds and tap point"),
			mcp.WithString("text", mcp.Description("Exact text to match (default \"Apply for unlocking\")")),
			mcp.WithString("fallback-id", mcp.Description("resource-id fallback (default com.mi.global.bbs:id/btnApply)")),
			mcp.WithString("remote-path", mcp.Description("Device path for the dump")),
		),
		s.handleLocate,
	)

	// tap
	s.mcp.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription("Tap the device at a located element or at explicit coordinates"),
			mcp.WithString("text", mcp.Description("Locate by exact text and tap its center")),
			mcp.WithString("fallback-id", mcp.Description("resource-id fallback when using text")),
			mcp.WithString("remote-path", mcp.Description("Device path for the dump when using text")),
			mcp.WithNumber("x", mcp.Description("Tap at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Tap at Y coordinate")),
			mcp.WithNumber("count", mcp.Description("Number of taps (default 1)")),
			mcp.WithNumber("delay", mcp.Description("Seconds between taps (default 1)")),
		),
		s.handleTap,
	)

	// read_setting
	s.mcp.AddTool(
		mcp.NewTool("read_setting",
			mcp.WithDescription("Read an Android settings value (settings get)"),
			mcp.WithString("namespace", mcp.Description("system, global or secure"), mcp.Required()),
			mcp.WithString("key", mcp.Description("Setting key, e.g. screen_off_timeout"), mcp.Required()),
		),
		s.handleReadSetting,
	)

	// write_setting
	s.mcp.AddTool(
		mcp.NewTool("write_setting",
			mcp.WithDescription("Write an Android settings value (settings put)"),
			mcp.WithString("namespace", mcp.Description("system, global or secure"), mcp.Required()),
			mcp.WithString("key", mcp.Description("Setting key"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value to write"), mcp.Required()),
		),
		s.handleWriteSetting,
	)

	// clock
	s.mcp.AddTool(
		mcp.NewTool("clock",
			mcp.WithDescription("Query the NTP reference clock, with offset, stratum and RTT diagnostics"),
		),
		s.handleClock,
	)

	// resolve
	s.mcp.AddTool(
		mcp.NewTool("resolve",
			mcp.WithDescription("Resolve the next occurrence of a time of day at a UTC offset against the reference clock"),
			mcp.WithString("time", mcp.Description("Time of day, HH:MM[:SS[.fff]]"), mcp.Required()),
			mcp.WithNumber("timezone", mcp.Description("UTC offset in hours, e.g. 8 or 5.5"), mcp.Required()),
		),
		s.handleResolve,
	)
}
