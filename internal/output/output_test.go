package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

// sampleResult mirrors the shape commands print: ok/action plus payload fields.
type sampleResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Text   string `yaml:"text,omitempty"   json:"text,omitempty"`
	X      int    `yaml:"x"                json:"x"`
	Y      int    `yaml:"y"                json:"y"`
}

// capture runs fn with Stdout swapped for a buffer and returns what was printed.
func capture(t *testing.T, format Format, pretty bool, fn func() error) string {
	t.Helper()
	var buf bytes.Buffer
	oldW, oldF, oldP := Stdout, OutputFormat, PrettyOutput
	Stdout, OutputFormat, PrettyOutput = &buf, format, pretty
	defer func() { Stdout, OutputFormat, PrettyOutput = oldW, oldF, oldP }()

	if err := fn(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrint_YAML(t *testing.T) {
	out := capture(t, FormatYAML, false, func() error {
		return Print(sampleResult{OK: true, Action: "locate", Text: "Apply for unlocking", X: 200, Y: 300})
	})

	// YAML output should be multi-line
	if bytes.Count([]byte(out), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}

	var decoded sampleResult
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if !decoded.OK {
		t.Error("ok: got false, want true")
	}
	if decoded.Action != "locate" {
		t.Errorf("action: got %q, want %q", decoded.Action, "locate")
	}
	if decoded.X != 200 || decoded.Y != 300 {
		t.Errorf("point: got (%d,%d), want (200,300)", decoded.X, decoded.Y)
	}
}

func TestPrint_CompactJSON(t *testing.T) {
	out := capture(t, FormatJSON, false, func() error {
		return Print(sampleResult{OK: true, Action: "tap", X: 540, Y: 1200})
	})

	// Compact JSON is exactly one line (plus trailing newline from the encoder)
	if n := bytes.Count([]byte(out), []byte("\n")); n != 1 {
		t.Errorf("compact JSON should be a single line, got %d newlines:\n%s", n, out)
	}

	var decoded sampleResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Action != "tap" {
		t.Errorf("action: got %q, want %q", decoded.Action, "tap")
	}
}

func TestPrint_PrettyJSON(t *testing.T) {
	out := capture(t, FormatJSON, true, func() error {
		return Print(sampleResult{OK: true, Action: "clock"})
	})
	if !json.Valid([]byte(out)) {
		t.Errorf("expected valid JSON, got:\n%s", out)
	}
	if bytes.Count([]byte(out), []byte("\n")) <= 1 {
		t.Errorf("pretty JSON should be multi-line, got:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("yaml"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yaml) = %q, %v", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %q, %v", f, err)
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPrint_UnsupportedFormat(t *testing.T) {
	oldF := OutputFormat
	OutputFormat = Format("csv")
	defer func() { OutputFormat = oldF }()

	if err := Print(sampleResult{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSampleResult_OmitEmpty(t *testing.T) {
	data, err := yaml.Marshal(sampleResult{OK: true, Action: "tap"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["text"]; ok {
		t.Error("empty text should be omitted")
	}
	if _, ok := m["ok"]; !ok {
		t.Error("ok should always be present")
	}
}
