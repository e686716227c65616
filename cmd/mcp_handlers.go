package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"taptick/internal/config"
	"taptick/internal/schedule"
	"taptick/internal/uitree"
)

// yamlResult serializes a result struct for an MCP text response.
func yamlResult(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal result: %v", err)
	}
	return string(b)
}

func (s *mcpServer) handleSnapshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	all := boolParam(params, "all", false)
	remote := stringParam(params, "remote-path", config.DefaultRemoteDumpPath)

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	h, err := s.cache.hierarchy(s.dev, remote)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(yamlResult(uitree.Flatten(h, !all))), nil
}

func (s *mcpServer) handleLocate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", config.DefaultTargetText)
	fallbackID := stringParam(params, "fallback-id", config.DefaultFallbackID)
	remote := stringParam(params, "remote-path", config.DefaultRemoteDumpPath)

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	h, err := s.cache.hierarchy(s.dev, remote)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	match, err := uitree.Locate(h, text, fallbackID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := locateResult{
		OK:         true,
		Action:     "locate",
		Matched:    match.Via,
		Text:       match.Node.Text,
		ResourceID: match.Node.ResourceID,
		Bounds:     match.Rect.String(),
		X:          match.Point.X,
		Y:          match.Point.Y,
	}
	return mcp.NewToolResultText(yamlResult(res)), nil
}

// tapToolResult reports what the tap tool fired.
type tapToolResult struct {
	OK      bool    `yaml:"ok"      json:"ok"`
	Action  string  `yaml:"action"  json:"action"`
	Matched string  `yaml:"matched" json:"matched"`
	X       int     `yaml:"x"       json:"x"`
	Y       int     `yaml:"y"       json:"y"`
	Count   int     `yaml:"count"   json:"count"`
	Delay   float64 `yaml:"delay_seconds" json:"delay_seconds"`
}

func (s *mcpServer) handleTap(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	x := intParam(params, "x", -1)
	y := intParam(params, "y", -1)
	count := intParam(params, "count", 1)
	delaySec := floatParam(params, "delay", config.DefaultDelaySeconds)

	if text == "" && (x < 0 || y < 0) {
		return mcp.NewToolResultError("tap needs either text or both x and y"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	point := uitree.Point{X: x, Y: y}
	via := "coordinates"
	if text != "" {
		fallbackID := stringParam(params, "fallback-id", config.DefaultFallbackID)
		remote := stringParam(params, "remote-path", config.DefaultRemoteDumpPath)
		h, err := s.cache.hierarchy(s.dev, remote)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		match, err := uitree.Locate(h, text, fallbackID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		point = match.Point
		via = match.Via
	}

	delay := time.Duration(delaySec * float64(time.Second))
	if err := s.dev.TapSequence(point.X, point.Y, count, delay); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// The tap likely changed what is on screen.
	s.cache.invalidate()

	res := tapToolResult{
		OK:      true,
		Action:  "tap",
		Matched: via,
		X:       point.X,
		Y:       point.Y,
		Count:   count,
		Delay:   delay.Seconds(),
	}
	return mcp.NewToolResultText(yamlResult(res)), nil
}

// settingResult reports a settings provider read or write.
type settingResult struct {
	OK        bool   `yaml:"ok"              json:"ok"`
	Action    string `yaml:"action"          json:"action"`
	Namespace string `yaml:"namespace"       json:"namespace"`
	Key       string `yaml:"key"             json:"key"`
	Value     string `yaml:"value,omitempty" json:"value,omitempty"`
}

func (s *mcpServer) handleReadSetting(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	namespace := stringParam(params, "namespace", "")
	key := stringParam(params, "key", "")
	if namespace == "" || key == "" {
		return mcp.NewToolResultError("namespace and key are required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	value, err := s.dev.GetSetting(namespace, key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := settingResult{OK: true, Action: "read_setting", Namespace: namespace, Key: key, Value: value}
	return mcp.NewToolResultText(yamlResult(res)), nil
}

func (s *mcpServer) handleWriteSetting(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	namespace := stringParam(params, "namespace", "")
	key := stringParam(params, "key", "")
	value := stringParam(params, "value", "")
	if namespace == "" || key == "" || value == "" {
		return mcp.NewToolResultError("namespace, key and value are required"), nil
	}

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	if err := s.dev.PutSetting(namespace, key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Settings like screen_off_timeout can change what is on screen.
	s.cache.invalidate()

	res := settingResult{OK: true, Action: "write_setting", Namespace: namespace, Key: key, Value: value}
	return mcp.NewToolResultText(yamlResult(res)), nil
}

func (s *mcpServer) handleClock(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(yamlResult(queryClock(s.clock))), nil
}

func (s *mcpServer) handleResolve(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	timeStr := stringParam(params, "time", "")
	if timeStr == "" {
		return mcp.NewToolResultError("time is required"), nil
	}
	if _, ok := params["timezone"]; !ok {
		return mcp.NewToolResultError("timezone is required"), nil
	}
	tzHours := floatParam(params, "timezone", 0)
	if tzHours < -12 || tzHours > 14 {
		return mcp.NewToolResultError(fmt.Sprintf("timezone %g out of range, want -12 to +14", tzHours)), nil
	}

	tod, err := schedule.ParseTimeOfDay(timeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := resolveTo(tod, time.Duration(tzHours*float64(time.Hour)), s.clock.Now())
	return mcp.NewToolResultText(yamlResult(res)), nil
}
