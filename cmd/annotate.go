package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"taptick/internal/uitree"
)

// writeAnnotatedScreenshot decodes a device screencap, draws the match
// rectangle, a crosshair on the tap point and a "TAP (x,y)" label, then
// writes the result as PNG to path. uiautomator bounds are device pixels,
// the same space as the screencap, so no scaling is involved.
func writeAnnotatedScreenshot(path string, screencap []byte, match uitree.Match) error {
	img, err := png.Decode(bytes.NewReader(screencap))
	if err != nil {
		return fmt.Errorf("decode screencap: %w", err)
	}
	rgba := imageToRGBA(img)

	boxColor := color.RGBA{R: 255, A: 255}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{A: 255}

	r := match.Rect
	drawRectangle(rgba, r.X1, r.Y1, r.X2, r.Y2, boxColor)
	drawCrosshair(rgba, match.Point.X, match.Point.Y, 14, boxColor)
	label := fmt.Sprintf("TAP (%d,%d)", match.Point.X, match.Point.Y)
	drawTextWithOutline(rgba, label, match.Point.X, match.Point.Y-20, textColor, outlineColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return fmt.Errorf("encode annotated png: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// imageToRGBA converts any image to RGBA for drawing.
func imageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline, clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawCrosshair draws a plus centered on (x, y) with the given arm length.
func drawCrosshair(img *image.RGBA, x, y, arm int, c color.Color) {
	bounds := img.Bounds()
	for d := -arm; d <= arm; d++ {
		if isWithinBounds(bounds, x+d, y) {
			img.Set(x+d, y, c)
		}
		if isWithinBounds(bounds, x, y+d) {
			img.Set(x, y+d, c)
		}
	}
}

// drawTextWithOutline draws text centered at (x, y) with a 1px outline so the
// label stays readable on any background.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13: 7px advance, 13px line height
	offsetX := x - len(text)*7/2
	offsetY := y - 13/2

	drawAt := func(px, py int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot: fixed.Point26_6{
				X: fixed.Int26_6(px * 64),
				Y: fixed.Int26_6(py * 64),
			},
		}
		d.DrawString(text)
	}

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawAt(offsetX+dx, offsetY+dy, outlineColor)
		}
	}
	drawAt(offsetX, offsetY, textColor)
}
