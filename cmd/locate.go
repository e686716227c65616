package cmd

import (
	"github.com/spf13/cobra"

	"taptick/internal/config"
	"taptick/internal/output"
	"taptick/internal/uitree"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the target button in the current UI and print its tap point",
	Long: `Dump the uiautomator hierarchy, find the target button and print its
bounds and tap point. Matching is exact text first, resource-id fallback
second; no match is an error.

With --annotate, a screencap is written with the match rectangle, the tap
point crosshair and a coordinate label drawn on it, which makes it easy to
eyeball where the run would tap.`,
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().String("target-text", "", `Button text to match exactly (default "Apply for unlocking", env TAPTICK_TARGET_TEXT)`)
	locateCmd.Flags().String("fallback-id", config.DefaultFallbackID, "resource-id to fall back to when the text is absent")
	locateCmd.Flags().String("remote-path", config.DefaultRemoteDumpPath, "Device path for the uiautomator dump")
	locateCmd.Flags().String("annotate", "", "Write a screencap with the match drawn on it to this PNG file")
}

// locateResult is shared by the locate command and the MCP locate tool.
type locateResult struct {
	OK         bool   `yaml:"ok"                  json:"ok"`
	Action     string `yaml:"action"              json:"action"`
	Matched    string `yaml:"matched"             json:"matched"`
	Text       string `yaml:"text,omitempty"      json:"text,omitempty"`
	ResourceID string `yaml:"resource_id,omitempty" json:"resource_id,omitempty"`
	Bounds     string `yaml:"bounds"              json:"bounds"`
	X          int    `yaml:"x"                   json:"x"`
	Y          int    `yaml:"y"                   json:"y"`
	Screenshot string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("target-text")
	if text == "" {
		text = config.EnvOr(config.EnvTargetText, config.DefaultTargetText)
	}
	fallbackID, _ := cmd.Flags().GetString("fallback-id")
	remote, _ := cmd.Flags().GetString("remote-path")
	annotate, _ := cmd.Flags().GetString("annotate")

	dev := deviceFromFlags(cmd)

	log.Infof("dumping UI hierarchy to %s", remote)
	raw, err := dev.Snapshot(remote)
	defer func() {
		if rerr := dev.Remove(remote); rerr != nil {
			log.Warnf("clean up %s: %v", remote, rerr)
		}
	}()
	if err != nil {
		return err
	}
	h, err := uitree.Parse(raw)
	if err != nil {
		return err
	}
	match, err := uitree.Locate(h, text, fallbackID)
	if err != nil {
		return err
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
	log.Okf("matched via %s at %s, tap point (%d,%d)", match.Via, res.Bounds, res.X, res.Y)

	if annotate != "" {
		png, err := dev.Screencap()
		if err != nil {
			return err
		}
		if err := writeAnnotatedScreenshot(annotate, png, match); err != nil {
			return err
		}
		res.Screenshot = annotate
		log.Okf("annotated screenshot written to %s", annotate)
	}
	return output.Print(res)
}
