// Package uitree models a uiautomator view-hierarchy snapshot and locates
// tap targets in it.
package uitree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Node is one element of a uiautomator dump. Boolean attributes arrive as
// the strings "true"/"false" exactly as the dump encodes them.
type Node struct {
	Text        string `xml:"text,attr"`
	ResourceID  string `xml:"resource-id,attr"`
	Class       string `xml:"class,attr"`
	ContentDesc string `xml:"content-desc,attr"`
	Clickable   string `xml:"clickable,attr"`
	Bounds      string `xml:"bounds,attr"`
	Nodes       []Node `xml:"node"`
}

// Hierarchy is the root of a dump document.
type Hierarchy struct {
	XMLName xml.Name `xml:"hierarchy"`
	Nodes   []Node   `xml:"node"`
}

// Parse decodes a uiautomator dump document. Empty and truncated documents
// are errors; there is no partial result.
func Parse(data []byte) (*Hierarchy, error) {
	if len(data) == 0 {
		return nil, errors.New("parse ui snapshot: empty document")
	}
	var h Hierarchy
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse ui snapshot: %w", err)
	}
	return &h, nil
}

// Point is an absolute screen coordinate.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Rect is an element's bounding box, top-left (X1,Y1) to bottom-right (X2,Y2).
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Center returns the box midpoint. Integer division truncates the sums,
// matching how the dump consumers on-device round.
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// String renders the dump encoding "[x1,y1][x2,y2]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.X1, r.Y1, r.X2, r.Y2)
}

// ErrMalformedBounds reports a bounds attribute the dump format does not allow.
var ErrMalformedBounds = errors.New("malformed bounds attribute")

var boundsRe = regexp.MustCompile(`\[(\d+),(\d+)\]\[(\d+),(\d+)\]`)

// ParseBounds decodes a "[x1,y1][x2,y2]" bounds attribute. Coordinates are
// non-negative by construction; the pattern admits no sign.
func ParseBounds(s string) (Rect, error) {
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return Rect{}, fmt.Errorf("%w: %q", ErrMalformedBounds, s)
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	x2, _ := strconv.Atoi(m[3])
	y2, _ := strconv.Atoi(m[4])
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}
